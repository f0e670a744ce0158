package recommend

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/metrics"
	"agri-backend/internal/shared/server/middleware"
	"agri-backend/internal/shared/server/respond"
)

type Handler struct {
	Engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	if engine == nil {
		engine = Default()
	}
	return &Handler{Engine: engine}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations/options", h.options)
	rg.POST("/recommendations", h.recommend)
}

func (h *Handler) options(c *gin.Context) {
	respond.OK(c, Options())
}

// recommend answers 200 for incomplete and unmatched queries too; only a body
// that is not a JSON object is rejected.
func (h *Handler) recommend(c *gin.Context) {
	var q Query
	if err := c.ShouldBindJSON(&q); err != nil {
		respond.Invalid(c, "request body must be a JSON object", gin.H{"reason": err.Error()})
		return
	}

	start := time.Now()
	result := h.Engine.Recommend(q)
	metrics.ObserveRecommendation(string(result.Outcome), time.Since(start))
	c.Set(middleware.RecommendOutcomeKey, string(result.Outcome))

	respond.JSON(c, http.StatusOK, result)
}
