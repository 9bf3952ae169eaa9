package seinfeld

import "strings"

// MatchMode controls how the subject filter matches tag labels.
// The dataset's tag vocabulary determines which mode is appropriate, so it
// is a configuration point rather than a fixed behavior.
type MatchMode int

const (
	// MatchExact matches a subject tag label exactly.
	MatchExact MatchMode = iota

	// MatchSubstring matches tag labels containing the filter value.
	MatchSubstring
)

// Filters is the optional filter set for Search and Random. The zero value
// matches all quotes. Provided filters are combined with logical AND.
type Filters struct {
	// Speaker filters by speaker name, case-insensitive.
	Speaker string

	// Subject filters by subject tag label. Matching semantics follow the
	// facade's MatchMode.
	Subject string

	// Season filters by season number. Zero means no season filter.
	Season int

	// Episode filters by episode id. Zero means no episode filter.
	Episode int

	// Limit caps the number of results. Zero means unlimited.
	// Ignored by Random, which always returns a single quote.
	Limit int

	// Reverse flips the (episode id, position) ordering to descending.
	// Ignored by Random.
	Reverse bool
}

// validate rejects malformed filter values before they reach the query.
func (f Filters) validate() error {
	if f.Season < 0 {
		return NewInvalidArgumentError("season", "must not be negative")
	}
	if f.Episode < 0 {
		return NewInvalidArgumentError("episode", "must not be negative")
	}
	if f.Limit < 0 {
		return NewInvalidArgumentError("limit", "must not be negative")
	}

	return nil
}

// Single-row lookups by primary key. Seasons are keyed by number, not a
// surrogate id.
const (
	querySeasonByNumber = `SELECT number FROM seasons WHERE number = ?`

	queryEpisodeByID = `
		SELECT id, season_number, episode_number, title, air_date, writers, directors
		FROM episodes
		WHERE id = ?`

	queryEpisodesAll = `
		SELECT id, season_number, episode_number, title, air_date, writers, directors
		FROM episodes
		ORDER BY season_number ASC, episode_number ASC`

	queryEpisodesBySeason = `
		SELECT id, season_number, episode_number, title, air_date, writers, directors
		FROM episodes
		WHERE season_number = ?
		ORDER BY episode_number ASC`

	queryQuoteByID = `
		SELECT id, episode_id, speaker_id, position, text
		FROM quotes
		WHERE id = ?`

	queryQuotesByEpisode = `
		SELECT id, episode_id, speaker_id, position, text
		FROM quotes
		WHERE episode_id = ?
		ORDER BY position ASC`

	querySpeakerByID = `SELECT id, name FROM speakers WHERE id = ?`

	querySpeakerByName = `SELECT id, name FROM speakers WHERE LOWER(name) = LOWER(?)`

	querySubjectsByQuote = `
		SELECT s.label
		FROM subjects s
		JOIN quote_subjects qs ON qs.subject_id = s.id
		WHERE qs.quote_id = ?
		ORDER BY s.label ASC`
)

// buildSearch translates a filter set into one parameterized query. Joins
// are added only when the corresponding filter is present. With random set,
// the result is shuffled server-side and limited to a single row.
func buildSearch(f Filters, mode MatchMode, random bool) (string, []any) {
	var sb strings.Builder
	var args []any

	// A substring subject filter can match several tags on one quote, so
	// the join needs deduplication.
	if f.Subject != "" {
		sb.WriteString("SELECT DISTINCT q.id, q.episode_id, q.speaker_id, q.position, q.text")
	} else {
		sb.WriteString("SELECT q.id, q.episode_id, q.speaker_id, q.position, q.text")
	}
	sb.WriteString("\nFROM quotes q")

	if f.Speaker != "" {
		sb.WriteString("\nJOIN speakers sp ON sp.id = q.speaker_id")
	}
	if f.Subject != "" {
		sb.WriteString("\nJOIN quote_subjects qs ON qs.quote_id = q.id")
		sb.WriteString("\nJOIN subjects s ON s.id = qs.subject_id")
	}
	if f.Season != 0 {
		sb.WriteString("\nJOIN episodes e ON e.id = q.episode_id")
	}

	var wheres []string

	if f.Speaker != "" {
		wheres = append(wheres, "LOWER(sp.name) = LOWER(?)")
		args = append(args, f.Speaker)
	}
	if f.Subject != "" {
		if mode == MatchSubstring {
			wheres = append(wheres, "s.label LIKE '%' || ? || '%'")
		} else {
			wheres = append(wheres, "s.label = ?")
		}
		args = append(args, f.Subject)
	}
	if f.Season != 0 {
		wheres = append(wheres, "e.season_number = ?")
		args = append(args, f.Season)
	}
	if f.Episode != 0 {
		wheres = append(wheres, "q.episode_id = ?")
		args = append(args, f.Episode)
	}

	if len(wheres) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(wheres, " AND "))
	}

	switch {
	case random:
		sb.WriteString("\nORDER BY RANDOM()")
	case f.Reverse:
		sb.WriteString("\nORDER BY q.episode_id DESC, q.position DESC")
	default:
		sb.WriteString("\nORDER BY q.episode_id ASC, q.position ASC")
	}

	if random {
		sb.WriteString("\nLIMIT 1")
	} else if f.Limit > 0 {
		sb.WriteString("\nLIMIT ?")
		args = append(args, f.Limit)
	}

	return sb.String(), args
}
