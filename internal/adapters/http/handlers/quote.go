package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	seinfeld "github.com/noswap/seinfeld"
	"github.com/noswap/seinfeld/internal/adapters/http/dto"
	"github.com/noswap/seinfeld/internal/app"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service       *app.QuoteService
	passageLength int
}

// QuoteHandlerConfig contains dependencies for the quote handler.
type QuoteHandlerConfig struct {
	Service *app.QuoteService

	// PassageLength is the window size used when the request omits one.
	PassageLength int
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(cfg QuoteHandlerConfig) *QuoteHandler {
	length := cfg.PassageLength
	if length <= 0 {
		length = seinfeld.DefaultPassageLength
	}

	return &QuoteHandler{
		service:       cfg.Service,
		passageLength: length,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID        int    `json:"id"`
	EpisodeID int    `json:"episodeId"`
	Sequence  int    `json:"sequence"`
	Text      string `json:"text"`

	// Speaker and Episode are populated only on detail responses.
	Speaker *SpeakerResponse `json:"speaker,omitempty"`
	Episode *EpisodeResponse `json:"episode,omitempty"`
}

// SpeakerResponse is the HTTP response structure for a speaker.
type SpeakerResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PassageResponse is the HTTP response structure for a quote passage.
type PassageResponse struct {
	QuoteID   int             `json:"quoteId"`
	EpisodeID int             `json:"episodeId"`
	Quotes    []QuoteResponse `json:"quotes"`
}

// SearchQuery holds the query parameters accepted by quote search endpoints.
type SearchQuery struct {
	Speaker string `form:"speaker"`
	Subject string `form:"subject"`
	Season  int    `form:"season"  validate:"omitempty,min=1"`
	Episode int    `form:"episode" validate:"omitempty,min=1"`
	Limit   int    `form:"limit"   validate:"omitempty,min=1,max=500"`
	Reverse bool   `form:"reverse"`
}

func (q SearchQuery) filters() seinfeld.Filters {
	return seinfeld.Filters{
		Speaker: q.Speaker,
		Subject: q.Subject,
		Season:  q.Season,
		Episode: q.Episode,
		Limit:   q.Limit,
		Reverse: q.Reverse,
	}
}

// toQuoteResponse converts a quote to an HTTP response.
func toQuoteResponse(q seinfeld.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		EpisodeID: q.EpisodeID,
		Sequence:  q.Position,
		Text:      q.Text,
	}
}

// toQuoteDetailResponse converts a resolved quote detail to an HTTP response.
func toQuoteDetailResponse(d *app.QuoteDetail) QuoteResponse {
	resp := toQuoteResponse(d.Quote)
	resp.Speaker = &SpeakerResponse{ID: d.Speaker.ID, Name: d.Speaker.Name}
	episode := toEpisodeResponse(d.Episode)
	resp.Episode = &episode

	return resp
}

func toQuoteResponses(quotes []seinfeld.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = toQuoteResponse(q)
	}

	return out
}

// SearchQuotes handles GET /api/v1/quotes
// Returns quotes matching the speaker/subject/season/episode filters.
func (h *QuoteHandler) SearchQuotes(c *gin.Context) {
	var query SearchQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	quotes, err := h.service.SearchQuotes(c.Request.Context(), query.filters())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": toQuoteResponses(quotes)})
}

// GetRandomQuote handles GET /api/v1/quotes/random
// Returns one quote chosen uniformly from the set matching the filters.
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	var query SearchQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	detail, err := h.service.RandomQuote(c.Request.Context(), query.filters())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteDetailResponse(detail))
}

// GetQuoteByID handles GET /api/v1/quotes/:id
// Returns a quote with its episode and speaker resolved.
func (h *QuoteHandler) GetQuoteByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetQuote(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteDetailResponse(detail))
}

// GetPassage handles GET /api/v1/quotes/:id/passage?length=N
// Returns the window of quotes surrounding the given quote.
func (h *QuoteHandler) GetPassage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	length := h.passageLength

	if raw := c.Query("length"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			dto.RespondWithValidationErrors(c, map[string]string{
				"length": "must be an integer",
			})
			return
		}

		length = parsed
	}

	passage, err := h.service.GetPassage(c.Request.Context(), id, length)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PassageResponse{
		QuoteID:   passage.QuoteID,
		EpisodeID: passage.EpisodeID,
		Quotes:    toQuoteResponses(passage.Quotes),
	})
}

// pathID parses a positive integer path parameter, writing a 400 response
// and returning false on failure.
func pathID(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)

	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		dto.RespondWithValidationErrors(c, map[string]string{
			name: "must be a positive integer",
		})
		return 0, false
	}

	return id, true
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.SearchQuotes)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/:id", h.GetQuoteByID)
	quotes.GET("/:id/passage", h.GetPassage)
}
