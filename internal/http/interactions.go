package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InteractionsController records ratings and favorites for the caller.
type InteractionsController struct {
	store  InteractionStore
	logger *zap.Logger
}

func NewInteractionsController(store InteractionStore, logger *zap.Logger) *InteractionsController {
	return &InteractionsController{store: store, logger: logger}
}

// RateRequest is the body of a rating request.
type RateRequest struct {
	Rating *float64 `json:"rating"`
}

// Rate handles POST /api/content/:id/rate
func (ic *InteractionsController) Rate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Rating == nil {
		respondBadRequest(c, "rating is required")
		return
	}

	interaction, err := ic.store.Rate(c.Request.Context(), GetUserID(c), id, *req.Rating)
	if err != nil {
		respondError(c, ic.logger, err)
		return
	}
	c.JSON(http.StatusOK, interaction)
}

// ToggleFavorite handles POST /api/content/:id/favorite
func (ic *InteractionsController) ToggleFavorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	isFavorite, err := ic.store.ToggleFavorite(c.Request.Context(), GetUserID(c), id)
	if err != nil {
		respondError(c, ic.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": isFavorite})
}
