package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"volunteer-backend/internal/auth"
	"volunteer-backend/internal/models"
	"volunteer-backend/internal/storage"
)

type Store interface {
	Ping(ctx context.Context) error
	GetOrganization(ctx context.Context, id int64) (*models.Organization, error)
	IsOrganizationAdmin(ctx context.Context, userID, orgID int64) (bool, error)
	ListOrganizationMembers(ctx context.Context, orgID int64) ([]models.OrganizationMember, error)
}

type Handler struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Get("/healthz", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Get("/v1/organizations/{id}/members", h.ListOrganizationMembers)
	})
}

// Health pings the database
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListOrganizationMembers lists users holding a role in the organization
// @Summary List organization members
// @Description Only admins of the organization may list its members
// @Tags organizations
// @Produce json
// @Param id path int true "Organization ID"
// @Success 200 {array} models.OrganizationMember
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /v1/organizations/{id}/members [get]
func (h *Handler) ListOrganizationMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orgID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || orgID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid organization id")
		return
	}

	if _, err := h.store.GetOrganization(r.Context(), orgID); err != nil {
		if errors.Is(err, storage.ErrOrganizationNotFound) {
			respondError(w, http.StatusNotFound, "organization not found")
			return
		}
		h.logger.Error("load organization", zap.Int64("organization_id", orgID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load organization")
		return
	}

	admin, err := h.store.IsOrganizationAdmin(r.Context(), user.ID, orgID)
	if err != nil {
		h.logger.Error("check organization admin", zap.Int64("organization_id", orgID), zap.Int64("user_id", user.ID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to check permissions")
		return
	}
	if !admin {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	members, err := h.store.ListOrganizationMembers(r.Context(), orgID)
	if err != nil {
		h.logger.Error("list organization members", zap.Int64("organization_id", orgID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	respondJSON(w, http.StatusOK, members)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"error": message})
}
