package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"freshmart/api/metrics"
	"freshmart/api/recommend"
)

type RecommendationHandlers struct {
	Engine   *recommend.Engine
	Recorder recommend.ViewRecorder
}

func NewRecommendationHandlers(engine *recommend.Engine, recorder recommend.ViewRecorder) *RecommendationHandlers {
	return &RecommendationHandlers{Engine: engine, Recorder: recorder}
}

// userIDFromContext returns the authenticated user ID, or 0 for anonymous
// callers (cold start).
func userIDFromContext(c *gin.Context) int {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

// GetRecommendations serves the personalized (or fallback) product lists.
// The engine degrades internally, so this handler never fails the page.
func (h *RecommendationHandlers) GetRecommendations(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result := h.Engine.Recommend(ctx, userIDFromContext(c))
	c.JSON(http.StatusOK, result)
}

type TrackViewRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

// TrackView records a product view for the signed-in user. The write is
// fire-and-forget: the response never waits on it and a failed write is
// logged and dropped. Anonymous views have no history to attach to and
// are acknowledged without recording.
func (h *RecommendationHandlers) TrackView(c *gin.Context) {
	var req TrackViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := userIDFromContext(c)
	if userID > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.Recorder.RecordView(ctx, userID, req.ProductID); err != nil {
				metrics.ViewRecordErrors.Inc()
				log.Debug().Err(err).Int("user_id", userID).Int64("product_id", req.ProductID).Msg("View record failed, dropping")
			}
		}()
	}

	c.Status(http.StatusAccepted)
}
