package seinfeld

import (
	"context"
	"time"
)

// Speaker is a character who utters quotes.
type Speaker struct {
	// ID is the dataset-assigned identifier for the speaker.
	ID int

	// Name is the speaker's display name.
	Name string
}

// Season is one season of the show, identified by its number.
// Episodes are not embedded; they are fetched on demand through the facade.
type Season struct {
	// Number is the season number (1..N).
	Number int

	db *Seinfeld
}

// Episodes returns the season's episodes ordered by episode number.
// Each call issues a fresh query; results are never cached on the entity.
func (s Season) Episodes(ctx context.Context) ([]Episode, error) {
	return s.db.Episodes(ctx, s.Number)
}

// Episode is a single episode of the show.
type Episode struct {
	// ID is the dataset-assigned episode identifier.
	ID int

	// SeasonNumber is the number of the season this episode belongs to.
	SeasonNumber int

	// Number is the episode's position within its season.
	Number int

	// Title is the episode title.
	Title string

	// AirDate is the original air date. Zero if the dataset has none.
	AirDate time.Time

	// Writers are the credited writers, in credit order.
	Writers []string

	// Directors are the credited directors, in credit order.
	Directors []string

	db *Seinfeld
}

// Season resolves the episode's season. A season number that no longer
// resolves indicates a corrupt dataset and fails with ErrDataIntegrity.
func (e Episode) Season(ctx context.Context) (Season, error) {
	season, err := e.db.Season(ctx, e.SeasonNumber)
	if err != nil {
		if IsNotFound(err) {
			return Season{}, NewDataIntegrityError("episode", e.ID, "season number does not resolve")
		}
		return Season{}, err
	}

	return season, nil
}

// Quotes returns the episode's quotes ordered by sequence position.
func (e Episode) Quotes(ctx context.Context) ([]Quote, error) {
	return e.db.quotesByEpisode(ctx, e.ID)
}

// Quote is one or more sentences from a single speaker in a single episode.
// Related entities are referenced by id and resolved lazily; every accessor
// call re-queries the data source.
type Quote struct {
	// ID is the dataset-assigned quote identifier.
	ID int

	// EpisodeID references the episode the quote belongs to.
	EpisodeID int

	// SpeakerID references the speaker who uttered the quote.
	SpeakerID int

	// Position is the quote's ordinal placement within its episode.
	// Values are unique per episode and ordered, but not necessarily
	// contiguous.
	Position int

	// Text is the quote text.
	Text string

	db *Seinfeld
}

// Episode resolves the quote's episode. Fails with ErrDataIntegrity if the
// episode id does not resolve.
func (q Quote) Episode(ctx context.Context) (Episode, error) {
	episode, err := q.db.Episode(ctx, q.EpisodeID)
	if err != nil {
		if IsNotFound(err) {
			return Episode{}, NewDataIntegrityError("quote", q.ID, "episode id does not resolve")
		}
		return Episode{}, err
	}

	return episode, nil
}

// Speaker resolves the quote's speaker. Fails with ErrDataIntegrity if the
// speaker id does not resolve.
func (q Quote) Speaker(ctx context.Context) (Speaker, error) {
	speaker, err := q.db.SpeakerByID(ctx, q.SpeakerID)
	if err != nil {
		if IsNotFound(err) {
			return Speaker{}, NewDataIntegrityError("quote", q.ID, "speaker id does not resolve")
		}
		return Speaker{}, err
	}

	return speaker, nil
}

// Subjects returns the subject labels tagged on the quote, sorted. A quote
// with no tags returns an empty slice.
func (q Quote) Subjects(ctx context.Context) ([]string, error) {
	return q.db.subjectsByQuote(ctx, q.ID)
}

// Passage is a bounded, ordered window of quotes from one episode, centered
// on a target quote. It is derived on demand and never persisted.
type Passage struct {
	// QuoteID is the id of the quote the window was centered on.
	QuoteID int

	// EpisodeID is the episode all quotes in the window belong to.
	EpisodeID int

	// Quotes is the window in sequence-position order. It always contains
	// the target quote.
	Quotes []Quote
}
