package seinfeld

import "context"

// DefaultPassageLength is the window size used when a caller has no
// preference.
const DefaultPassageLength = 5

// Passage fetches a contiguous window of up to length quotes around quote,
// in sequence-position order. The window holds floor(length/2) quotes
// before the target and the remainder after; near the start or end of the
// episode it shifts rather than shrinking, so the full length is returned
// whenever the episode has that many quotes. The window never crosses into
// another episode and always contains the target quote.
//
// The window is computed over the episode's ordered quote list rather than
// a position range, so it stays correct when sequence positions are sparse.
func (s *Seinfeld) Passage(ctx context.Context, quote Quote, length int) (Passage, error) {
	if length <= 0 {
		return Passage{}, NewInvalidArgumentError("length", "must be positive")
	}

	quotes, err := s.quotesByEpisode(ctx, quote.EpisodeID)
	if err != nil {
		return Passage{}, err
	}

	target := -1
	for i, q := range quotes {
		if q.ID == quote.ID {
			target = i
			break
		}
	}
	if target < 0 {
		return Passage{}, NewDataIntegrityError("quote", quote.ID, "not present in its episode")
	}

	// Shift the window inside the episode instead of padding.
	start := target - length/2
	if start < 0 {
		start = 0
	}

	end := start + length
	if end > len(quotes) {
		end = len(quotes)
		start = end - length
		if start < 0 {
			start = 0
		}
	}

	return Passage{
		QuoteID:   quote.ID,
		EpisodeID: quote.EpisodeID,
		Quotes:    quotes[start:end],
	}, nil
}
