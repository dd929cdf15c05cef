package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// ProfileService exposes stored member profiles
type ProfileService struct {
	profiles domain.ProfileRepository
	users    domain.UserRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profiles domain.ProfileRepository, users domain.UserRepository) *ProfileService {
	return &ProfileService{profiles: profiles, users: users}
}

// Get returns the profile of a user, or nil when onboarding has not happened
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.Get(ctx, userID)
}

// IsAdmin reports whether the user record carries the admin role
func (s *ProfileService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}
