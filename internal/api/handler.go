// Package api provides the HTTP endpoints that sit next to the chat
// gateway: a version probe and a read-only profile lookup for support
// tooling.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ashureev/wattwise/internal/identity"
	"github.com/ashureev/wattwise/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	repo       store.Repository
	appVersion string
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, appVersion string) *Handler {
	return &Handler{
		repo:       repo,
		appVersion: appVersion,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Version reports the running application version.
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"version": h.appVersion})
}

// Profile returns the stored onboarding profile for a user. Intended for
// support tooling; the user ID arrives via the user_id query parameter.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.SanitizeUserID(r.URL.Query().Get("user_id"))
	if !ok {
		Error(w, http.StatusBadRequest, "missing or invalid user_id")
		return
	}

	profile, err := h.repo.GetProfile(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to load profile", "error", err, "user_hash", identity.UserHash(userID))
		Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		Error(w, http.StatusNotFound, "profile not found")
		return
	}

	JSON(w, http.StatusOK, profile)
}
