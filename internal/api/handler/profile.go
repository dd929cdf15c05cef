package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/nutrisaas-chat/internal/api/middleware"
	"github.com/Rrens/nutrisaas-chat/internal/api/response"
	"github.com/Rrens/nutrisaas-chat/internal/service"
)

// ProfileHandler serves the stored profile of the caller
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get returns the profile, or only the onboarding flag when none exists yet
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get profile")
		response.InternalError(w, "failed to get profile")
		return
	}
	if profile == nil {
		response.OK(w, map[string]any{"onboarding_complete": false})
		return
	}

	response.OK(w, profile)
}
