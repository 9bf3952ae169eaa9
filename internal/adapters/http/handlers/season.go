package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noswap/seinfeld/internal/adapters/http/dto"
	"github.com/noswap/seinfeld/internal/app"
)

// SeasonHandler handles season-related HTTP endpoints.
type SeasonHandler struct {
	service *app.QuoteService
}

// NewSeasonHandler creates a new season handler.
func NewSeasonHandler(service *app.QuoteService) *SeasonHandler {
	return &SeasonHandler{service: service}
}

// SeasonResponse is the HTTP response structure for a season.
type SeasonResponse struct {
	Number   int               `json:"number"`
	Episodes []EpisodeResponse `json:"episodes"`
}

// GetSeason handles GET /api/v1/seasons/:number
// Returns the season and its episodes in airing order.
func (h *SeasonHandler) GetSeason(c *gin.Context) {
	number, ok := pathID(c, "number")
	if !ok {
		return
	}

	detail, err := h.service.GetSeason(c.Request.Context(), number)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SeasonResponse{
		Number:   detail.Season.Number,
		Episodes: toEpisodeResponses(detail.Episodes),
	})
}

// GetSeasonEpisodes handles GET /api/v1/seasons/:number/episodes
// Returns just the episode list for a season.
func (h *SeasonHandler) GetSeasonEpisodes(c *gin.Context) {
	number, ok := pathID(c, "number")
	if !ok {
		return
	}

	detail, err := h.service.GetSeason(c.Request.Context(), number)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"episodes": toEpisodeResponses(detail.Episodes)})
}

// RegisterSeasonRoutes registers season routes on the given router group.
func (h *SeasonHandler) RegisterSeasonRoutes(rg *gin.RouterGroup) {
	seasons := rg.Group("/seasons")
	seasons.GET("/:number", h.GetSeason)
	seasons.GET("/:number/episodes", h.GetSeasonEpisodes)
}
