// Package ports defines interfaces between the application layer and its
// collaborators. The application depends on these contracts, not on the
// concrete quote library or HTTP adapters.
package ports

import (
	"context"

	seinfeld "github.com/noswap/seinfeld"
)

// QuoteStore is the read surface of the quote dataset. It is implemented by
// *seinfeld.Seinfeld; the application layer depends on this interface so
// tests can substitute a fake store.
//
// All methods take a context for cancellation. Lookups return
// seinfeld.ErrNotFound when no row matches; Search returns an empty slice
// rather than an error for zero matches.
type QuoteStore interface {
	// Season fetches a season by number.
	Season(ctx context.Context, number int) (seinfeld.Season, error)

	// Episodes lists episodes, optionally restricted to one season (0 = all).
	Episodes(ctx context.Context, season int) ([]seinfeld.Episode, error)

	// Episode fetches an episode by id.
	Episode(ctx context.Context, id int) (seinfeld.Episode, error)

	// Quote fetches a quote by id.
	Quote(ctx context.Context, id int) (seinfeld.Quote, error)

	// Speaker fetches a speaker by case-insensitive name.
	Speaker(ctx context.Context, name string) (seinfeld.Speaker, error)

	// SpeakerByID fetches a speaker by primary key.
	SpeakerByID(ctx context.Context, id int) (seinfeld.Speaker, error)

	// Search returns quotes matching the filter set in (episode id,
	// position) order.
	Search(ctx context.Context, f seinfeld.Filters) ([]seinfeld.Quote, error)

	// Random returns one quote chosen uniformly from the matching set, or
	// seinfeld.ErrNotFound when nothing matches.
	Random(ctx context.Context, f seinfeld.Filters) (seinfeld.Quote, error)

	// Passage returns a window of quotes around the given quote.
	Passage(ctx context.Context, quote seinfeld.Quote, length int) (seinfeld.Passage, error)

	// Ping verifies the store holds a live connection.
	Ping(ctx context.Context) error
}
