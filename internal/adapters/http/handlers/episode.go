package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	seinfeld "github.com/noswap/seinfeld"
	"github.com/noswap/seinfeld/internal/adapters/http/dto"
	"github.com/noswap/seinfeld/internal/app"
)

// EpisodeHandler handles episode-related HTTP endpoints.
type EpisodeHandler struct {
	service *app.QuoteService
}

// NewEpisodeHandler creates a new episode handler.
func NewEpisodeHandler(service *app.QuoteService) *EpisodeHandler {
	return &EpisodeHandler{service: service}
}

// EpisodeResponse is the HTTP response structure for an episode.
type EpisodeResponse struct {
	ID        int      `json:"id"`
	Season    int      `json:"season"`
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	AirDate   string   `json:"airDate,omitempty"`
	Writers   []string `json:"writers,omitempty"`
	Directors []string `json:"directors,omitempty"`
}

// toEpisodeResponse converts an episode to an HTTP response.
func toEpisodeResponse(e seinfeld.Episode) EpisodeResponse {
	resp := EpisodeResponse{
		ID:        e.ID,
		Season:    e.SeasonNumber,
		Number:    e.Number,
		Title:     e.Title,
		Writers:   e.Writers,
		Directors: e.Directors,
	}

	if !e.AirDate.IsZero() {
		resp.AirDate = e.AirDate.Format(time.DateOnly)
	}

	return resp
}

func toEpisodeResponses(episodes []seinfeld.Episode) []EpisodeResponse {
	out := make([]EpisodeResponse, len(episodes))
	for i, e := range episodes {
		out[i] = toEpisodeResponse(e)
	}

	return out
}

// ListEpisodes handles GET /api/v1/episodes?season=N
// Returns all episodes in airing order, optionally restricted to a season.
func (h *EpisodeHandler) ListEpisodes(c *gin.Context) {
	season := 0

	if raw := strings.TrimSpace(c.Query("season")); raw != "" {
		parsed, ok := parsePositiveInt(c, "season", raw)
		if !ok {
			return
		}

		season = parsed
	}

	episodes, err := h.service.ListEpisodes(c.Request.Context(), season)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"episodes": toEpisodeResponses(episodes)})
}

// GetEpisodeByID handles GET /api/v1/episodes/:id
// Returns a single episode's metadata.
func (h *EpisodeHandler) GetEpisodeByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	episode, err := h.service.GetEpisode(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEpisodeResponse(episode))
}

// GetEpisodeQuotes handles GET /api/v1/episodes/:id/quotes
// Returns the episode's quotes in sequence order.
func (h *EpisodeHandler) GetEpisodeQuotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	quotes, err := h.service.GetEpisodeQuotes(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": toQuoteResponses(quotes)})
}

// parsePositiveInt parses a positive integer query parameter, writing a 400
// response and returning false on failure.
func parsePositiveInt(c *gin.Context, name, raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		dto.RespondWithValidationErrors(c, map[string]string{
			name: "must be a positive integer",
		})
		return 0, false
	}

	return id, true
}

// RegisterEpisodeRoutes registers episode routes on the given router group.
func (h *EpisodeHandler) RegisterEpisodeRoutes(rg *gin.RouterGroup) {
	episodes := rg.Group("/episodes")
	episodes.GET("", h.ListEpisodes)
	episodes.GET("/:id", h.GetEpisodeByID)
	episodes.GET("/:id/quotes", h.GetEpisodeQuotes)
}
