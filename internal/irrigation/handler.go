package irrigation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/metrics"
	"agri-backend/internal/shared/server/middleware"
	"agri-backend/internal/shared/server/respond"
)

type Handler struct {
	Sensors *Simulator
	Pumps   *PumpBoard
}

func NewHandler(sensors *Simulator, pumps *PumpBoard) *Handler {
	return &Handler{Sensors: sensors, Pumps: pumps}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/irrigation")
	g.GET("/readings", h.readings)
	g.GET("/advice", h.advice)
	g.GET("/schedule", h.schedule)
	g.GET("/pumps", h.pumps)
	g.POST("/pumps/:pump/toggle", h.toggle)
}

func (h *Handler) readings(c *gin.Context) {
	respond.OK(c, h.Sensors.Current())
}

func (h *Handler) advice(c *gin.Context) {
	reading := h.Sensors.Current()
	respond.OK(c, gin.H{"reading": reading, "advice": Advise(reading)})
}

func (h *Handler) schedule(c *gin.Context) {
	respond.OK(c, gin.H{"slots": DefaultSchedule()})
}

func (h *Handler) pumps(c *gin.Context) {
	owner := middleware.UserIDFromContext(c)
	respond.OK(c, gin.H{"pumps": h.Pumps.States(owner)})
}

func (h *Handler) toggle(c *gin.Context) {
	pump := c.Param("pump")
	c.Set(middleware.PumpKey, pump)

	state, err := h.Pumps.Toggle(middleware.UserIDFromContext(c), pump)
	if err != nil {
		if errors.Is(err, ErrUnknownPump) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "unknown pump", gin.H{"pump": pump, "known": PumpIDs})
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to toggle pump", nil)
		return
	}
	metrics.IncPumpToggles()
	respond.OK(c, state)
}
