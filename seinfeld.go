// Package seinfeld is a read-only query library over the Seinfeld episode
// and quote dataset. A Seinfeld facade owns one scoped connection to the
// dataset and exposes season, episode, quote, speaker, search, random and
// passage lookups. Entities reference each other by id and resolve
// relationships lazily through further queries; nothing is cached and
// nothing is ever written.
package seinfeld

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
)

// Seinfeld is the single entry point for all read operations. It is safe
// for concurrent use; operations serialize at the underlying connection.
type Seinfeld struct {
	conn         *connection
	subjectMatch MatchMode
}

// Option configures a facade instance.
type Option func(*Seinfeld)

// WithSubjectMatch sets the matching semantics for the subject filter.
// The default is MatchExact.
func WithSubjectMatch(mode MatchMode) Option {
	return func(s *Seinfeld) {
		s.subjectMatch = mode
	}
}

// New creates a facade over the dataset at path. The file must exist; the
// connection is not established until Open.
func New(path string, opts ...Option) (*Seinfeld, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, NewInvalidArgumentError("path", fmt.Sprintf("%q is not a file", path))
	}

	s := &Seinfeld{
		conn:         &connection{path: path},
		subjectMatch: MatchExact,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Open establishes the connection. Operations called before Open or after
// Close fail with ErrNotConnected.
func (s *Seinfeld) Open(ctx context.Context) error {
	return s.conn.open(ctx)
}

// Close releases the connection.
func (s *Seinfeld) Close() error {
	return s.conn.close()
}

// Ping verifies the facade holds a live connection to the dataset.
func (s *Seinfeld) Ping(ctx context.Context) error {
	return s.conn.ping(ctx)
}

// With runs fn against a facade opened on the dataset at path, closing the
// connection on every exit path.
func With(ctx context.Context, path string, fn func(context.Context, *Seinfeld) error, opts ...Option) error {
	s, err := New(path, opts...)
	if err != nil {
		return err
	}

	if err := s.Open(ctx); err != nil {
		return err
	}
	defer s.Close()

	return fn(ctx, s)
}

// Season fetches a season by number, or ErrNotFound.
func (s *Seinfeld) Season(ctx context.Context, number int) (Season, error) {
	db, err := s.conn.handle()
	if err != nil {
		return Season{}, err
	}

	var row seasonRow
	if err := db.GetContext(ctx, &row, querySeasonByNumber, number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Season{}, NewNotFoundError("season", number)
		}
		return Season{}, fmt.Errorf("fetching season %d: %w", number, err)
	}

	return rowToSeason(row, s), nil
}

// Episode fetches an episode by id, or ErrNotFound.
func (s *Seinfeld) Episode(ctx context.Context, id int) (Episode, error) {
	db, err := s.conn.handle()
	if err != nil {
		return Episode{}, err
	}

	var row episodeRow
	if err := db.GetContext(ctx, &row, queryEpisodeByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Episode{}, NewNotFoundError("episode", id)
		}
		return Episode{}, fmt.Errorf("fetching episode %d: %w", id, err)
	}

	return rowToEpisode(row, s)
}

// Episodes lists episodes ordered by (season number, episode number).
// A zero season lists every episode; otherwise only that season's.
func (s *Seinfeld) Episodes(ctx context.Context, season int) ([]Episode, error) {
	if season < 0 {
		return nil, NewInvalidArgumentError("season", "must not be negative")
	}

	db, err := s.conn.handle()
	if err != nil {
		return nil, err
	}

	query := queryEpisodesAll
	var args []any
	if season != 0 {
		query = queryEpisodesBySeason
		args = append(args, season)
	}

	var rows []episodeRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("fetching episodes: %w", err)
	}

	episodes := make([]Episode, 0, len(rows))
	for _, row := range rows {
		episode, err := rowToEpisode(row, s)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}

	return episodes, nil
}

// Quote fetches a quote by id, or ErrNotFound.
func (s *Seinfeld) Quote(ctx context.Context, id int) (Quote, error) {
	db, err := s.conn.handle()
	if err != nil {
		return Quote{}, err
	}

	var row quoteRow
	if err := db.GetContext(ctx, &row, queryQuoteByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quote{}, NewNotFoundError("quote", id)
		}
		return Quote{}, fmt.Errorf("fetching quote %d: %w", id, err)
	}

	return rowToQuote(row, s), nil
}

// Speaker fetches a speaker by case-insensitive name, or ErrNotFound.
func (s *Seinfeld) Speaker(ctx context.Context, name string) (Speaker, error) {
	if name == "" {
		return Speaker{}, NewInvalidArgumentError("name", "must not be empty")
	}

	db, err := s.conn.handle()
	if err != nil {
		return Speaker{}, err
	}

	var row speakerRow
	if err := db.GetContext(ctx, &row, querySpeakerByName, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Speaker{}, &NotFoundError{Entity: "speaker", ID: name}
		}
		return Speaker{}, fmt.Errorf("fetching speaker %q: %w", name, err)
	}

	return rowToSpeaker(row), nil
}

// Search returns the quotes matching the filter set in (episode id,
// position) order, or reversed when Filters.Reverse is set. An empty result
// is not an error.
func (s *Seinfeld) Search(ctx context.Context, f Filters) ([]Quote, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	return s.searchQuotes(ctx, f, false)
}

// Random returns a single quote chosen uniformly from those matching the
// filter set. Selection is pushed to the data source's native random
// ordering with a limit of one, so cost stays bounded under any filter.
// Zero matches fail with ErrNotFound; this is the one query shape where
// "no match" is an expected, recoverable outcome.
func (s *Seinfeld) Random(ctx context.Context, f Filters) (Quote, error) {
	if err := f.validate(); err != nil {
		return Quote{}, err
	}

	quotes, err := s.searchQuotes(ctx, f, true)
	if err != nil {
		return Quote{}, err
	}

	if len(quotes) == 0 {
		return Quote{}, &NotFoundError{Entity: "quote"}
	}

	return quotes[0], nil
}

// searchQuotes executes the search query shape and maps the result rows.
func (s *Seinfeld) searchQuotes(ctx context.Context, f Filters, random bool) ([]Quote, error) {
	db, err := s.conn.handle()
	if err != nil {
		return nil, err
	}

	query, args := buildSearch(f, s.subjectMatch, random)

	var rows []quoteRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("searching quotes: %w", err)
	}

	quotes := make([]Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, rowToQuote(row, s))
	}

	return quotes, nil
}

// quotesByEpisode lists an episode's quotes ordered by sequence position.
func (s *Seinfeld) quotesByEpisode(ctx context.Context, episodeID int) ([]Quote, error) {
	db, err := s.conn.handle()
	if err != nil {
		return nil, err
	}

	var rows []quoteRow
	if err := db.SelectContext(ctx, &rows, queryQuotesByEpisode, episodeID); err != nil {
		return nil, fmt.Errorf("fetching quotes for episode %d: %w", episodeID, err)
	}

	quotes := make([]Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, rowToQuote(row, s))
	}

	return quotes, nil
}

// SpeakerByID fetches a speaker by primary key, or ErrNotFound.
func (s *Seinfeld) SpeakerByID(ctx context.Context, id int) (Speaker, error) {
	db, err := s.conn.handle()
	if err != nil {
		return Speaker{}, err
	}

	var row speakerRow
	if err := db.GetContext(ctx, &row, querySpeakerByID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Speaker{}, NewNotFoundError("speaker", id)
		}
		return Speaker{}, fmt.Errorf("fetching speaker %d: %w", id, err)
	}

	return rowToSpeaker(row), nil
}

// subjectsByQuote lists the subject labels tagged on a quote.
func (s *Seinfeld) subjectsByQuote(ctx context.Context, quoteID int) ([]string, error) {
	db, err := s.conn.handle()
	if err != nil {
		return nil, err
	}

	var labels []string
	if err := db.SelectContext(ctx, &labels, querySubjectsByQuote, quoteID); err != nil {
		return nil, fmt.Errorf("fetching subjects for quote %d: %w", quoteID, err)
	}

	return labels, nil
}
