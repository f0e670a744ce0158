package profiles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/server/middleware"
	"agri-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts the profile endpoints. /profile/cities is public.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.get)
	rg.PUT("/profile", h.put)
	rg.GET("/profile/cities", h.cities)
}

type profileResponse struct {
	Profile
	Complete bool `json:"complete"`
}

func (h *Handler) get(c *gin.Context) {
	userID, ok := h.requireLogin(c)
	if !ok {
		return
	}
	profile, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "profile not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load profile", nil)
		return
	}
	respond.OK(c, profileResponse{Profile: profile, Complete: profile.Complete()})
}

func (h *Handler) put(c *gin.Context) {
	userID, ok := h.requireLogin(c)
	if !ok {
		return
	}
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Invalid(c, "invalid JSON body", nil)
		return
	}
	profile, err := h.Svc.Upsert(c.Request.Context(), userID, in)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			respond.Invalid(c, "invalid profile", verr.Fields)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to save profile", nil)
		return
	}
	respond.OK(c, profileResponse{Profile: profile, Complete: profile.Complete()})
}

func (h *Handler) cities(c *gin.Context) {
	respond.OK(c, gin.H{"cities": Cities()})
}

func (h *Handler) requireLogin(c *gin.Context) (string, bool) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "service unavailable", nil)
		return "", false
	}
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing or invalid token", nil)
		return "", false
	}
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, respond.CodeLoginRequired, "login required", nil)
		return "", false
	}
	return userID, true
}
