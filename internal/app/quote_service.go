// Package app contains application services that orchestrate use cases.
// It coordinates the quote library through ports and owns the logging the
// library deliberately does not do.
package app

import (
	"context"
	"log/slog"

	seinfeld "github.com/noswap/seinfeld"
	"github.com/noswap/seinfeld/internal/ports"
)

// QuoteService orchestrates read operations over the quote dataset.
type QuoteService struct {
	store  ports.QuoteStore
	logger *slog.Logger
}

// QuoteServiceConfig contains dependencies for the quote service.
type QuoteServiceConfig struct {
	Store  ports.QuoteStore
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service. The store is required.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("app: QuoteService requires a store")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		store:  cfg.Store,
		logger: logger,
	}
}

// SeasonDetail is a season together with its resolved episode list.
type SeasonDetail struct {
	Season   seinfeld.Season
	Episodes []seinfeld.Episode
}

// QuoteDetail is a quote with its cross-references resolved.
type QuoteDetail struct {
	Quote   seinfeld.Quote
	Episode seinfeld.Episode
	Speaker seinfeld.Speaker
}

// GetSeason retrieves a season and its episodes.
func (s *QuoteService) GetSeason(ctx context.Context, number int) (*SeasonDetail, error) {
	season, err := s.store.Season(ctx, number)
	if err != nil {
		return nil, err
	}

	episodes, err := s.store.Episodes(ctx, number)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fetched season",
		slog.Int("season", number),
		slog.Int("episodes", len(episodes)),
	)

	return &SeasonDetail{Season: season, Episodes: episodes}, nil
}

// ListEpisodes lists episodes, optionally restricted to one season.
func (s *QuoteService) ListEpisodes(ctx context.Context, season int) ([]seinfeld.Episode, error) {
	episodes, err := s.store.Episodes(ctx, season)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "listed episodes",
		slog.Int("season", season),
		slog.Int("count", len(episodes)),
	)

	return episodes, nil
}

// GetEpisode retrieves an episode by id.
func (s *QuoteService) GetEpisode(ctx context.Context, id int) (seinfeld.Episode, error) {
	episode, err := s.store.Episode(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "episode lookup failed",
			slog.Int("episode_id", id),
			slog.Any("error", err),
		)
		return seinfeld.Episode{}, err
	}

	return episode, nil
}

// GetEpisodeQuotes lists an episode's quotes in sequence order. The episode
// lookup runs first so a missing episode surfaces as not found rather than
// an empty list.
func (s *QuoteService) GetEpisodeQuotes(ctx context.Context, id int) ([]seinfeld.Quote, error) {
	if _, err := s.store.Episode(ctx, id); err != nil {
		return nil, err
	}

	return s.store.Search(ctx, seinfeld.Filters{Episode: id})
}

// GetQuote retrieves a quote and resolves its episode and speaker. The two
// references are independent, so they resolve concurrently.
func (s *QuoteService) GetQuote(ctx context.Context, id int) (*QuoteDetail, error) {
	quote, err := s.store.Quote(ctx, id)
	if err != nil {
		return nil, err
	}

	episode, speaker, err := parallel2(ctx,
		func(ctx context.Context) (seinfeld.Episode, error) {
			return s.store.Episode(ctx, quote.EpisodeID)
		},
		func(ctx context.Context) (seinfeld.Speaker, error) {
			return s.store.SpeakerByID(ctx, quote.SpeakerID)
		},
	)
	if err != nil {
		if seinfeld.IsNotFound(err) {
			// The quote exists but one of its references does not.
			return nil, seinfeld.NewDataIntegrityError("quote", id, "reference does not resolve")
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "fetched quote",
		slog.Int("quote_id", id),
		slog.String("speaker", speaker.Name),
	)

	return &QuoteDetail{Quote: quote, Episode: episode, Speaker: speaker}, nil
}

// SearchQuotes returns quotes matching the filter set.
func (s *QuoteService) SearchQuotes(ctx context.Context, f seinfeld.Filters) ([]seinfeld.Quote, error) {
	quotes, err := s.store.Search(ctx, f)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "searched quotes",
		slog.String("speaker", f.Speaker),
		slog.String("subject", f.Subject),
		slog.Int("season", f.Season),
		slog.Int("episode", f.Episode),
		slog.Int("results", len(quotes)),
	)

	return quotes, nil
}

// RandomQuote returns one quote chosen uniformly from the matching set,
// resolved like GetQuote. Not found means nothing matched the filters and
// is a recoverable outcome for the caller.
func (s *QuoteService) RandomQuote(ctx context.Context, f seinfeld.Filters) (*QuoteDetail, error) {
	quote, err := s.store.Random(ctx, f)
	if err != nil {
		return nil, err
	}

	return s.GetQuote(ctx, quote.ID)
}

// GetPassage retrieves the window of quotes around a quote.
func (s *QuoteService) GetPassage(ctx context.Context, quoteID, length int) (seinfeld.Passage, error) {
	quote, err := s.store.Quote(ctx, quoteID)
	if err != nil {
		return seinfeld.Passage{}, err
	}

	passage, err := s.store.Passage(ctx, quote, length)
	if err != nil {
		return seinfeld.Passage{}, err
	}

	s.logger.InfoContext(ctx, "assembled passage",
		slog.Int("quote_id", quoteID),
		slog.Int("length", length),
		slog.Int("quotes", len(passage.Quotes)),
	)

	return passage, nil
}
