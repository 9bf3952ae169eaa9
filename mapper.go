package seinfeld

import (
	"strings"
	"time"
)

// airDateLayout is how the dataset stores episode air dates.
const airDateLayout = "2006-01-02"

// Row shapes scanned by sqlx. Column names mirror the dataset schema.
type seasonRow struct {
	Number int `db:"number"`
}

type episodeRow struct {
	ID            int    `db:"id"`
	SeasonNumber  int    `db:"season_number"`
	EpisodeNumber int    `db:"episode_number"`
	Title         string `db:"title"`
	AirDate       string `db:"air_date"`
	Writers       string `db:"writers"`
	Directors     string `db:"directors"`
}

type quoteRow struct {
	ID        int    `db:"id"`
	EpisodeID int    `db:"episode_id"`
	SpeakerID int    `db:"speaker_id"`
	Position  int    `db:"position"`
	Text      string `db:"text"`
}

type speakerRow struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

// rowToSeason converts a seasons row into a Season bound to the facade for
// lazy episode resolution.
func rowToSeason(r seasonRow, db *Seinfeld) Season {
	return Season{Number: r.Number, db: db}
}

// rowToEpisode converts an episodes row into an Episode. A malformed air
// date is a dataset problem, not a caller bug.
func rowToEpisode(r episodeRow, db *Seinfeld) (Episode, error) {
	var airDate time.Time
	if r.AirDate != "" {
		parsed, err := time.Parse(airDateLayout, r.AirDate)
		if err != nil {
			return Episode{}, NewDataIntegrityError("episode", r.ID, "malformed air date "+r.AirDate)
		}
		airDate = parsed
	}

	return Episode{
		ID:           r.ID,
		SeasonNumber: r.SeasonNumber,
		Number:       r.EpisodeNumber,
		Title:        r.Title,
		AirDate:      airDate,
		Writers:      splitNames(r.Writers),
		Directors:    splitNames(r.Directors),
		db:           db,
	}, nil
}

// rowToQuote converts a quotes row into a Quote carrying back-reference ids.
func rowToQuote(r quoteRow, db *Seinfeld) Quote {
	return Quote{
		ID:        r.ID,
		EpisodeID: r.EpisodeID,
		SpeakerID: r.SpeakerID,
		Position:  r.Position,
		Text:      r.Text,
		db:        db,
	}
}

// rowToSpeaker converts a speakers row into a Speaker.
func rowToSpeaker(r speakerRow) Speaker {
	return Speaker{ID: r.ID, Name: r.Name}
}

// splitNames splits a comma-separated credit list, preserving credit order.
func splitNames(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}

	return names
}
