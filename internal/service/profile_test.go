package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

func TestProfileService_IsAdmin(t *testing.T) {
	ctx := context.Background()
	adminID, memberID, missingID, brokenID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	users := new(MockUserRepository)
	users.On("GetByID", ctx, adminID).Return(&domain.User{ID: adminID, Role: domain.RoleAdmin}, nil)
	users.On("GetByID", ctx, memberID).Return(&domain.User{ID: memberID, Role: domain.RoleMember}, nil)
	users.On("GetByID", ctx, missingID).Return(nil, nil)
	users.On("GetByID", ctx, brokenID).Return(nil, errors.New("db down"))

	svc := NewProfileService(new(MockProfileRepository), users)

	ok, err := svc.IsAdmin(ctx, adminID)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(ctx, memberID)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsAdmin(ctx, missingID)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.IsAdmin(ctx, brokenID)
	assert.Error(t, err)
}

func TestProfileService_Get(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	profiles := new(MockProfileRepository)
	profiles.On("Get", ctx, userID).Return(&domain.Profile{UserID: userID, Age: 30, OnboardingComplete: true}, nil)

	got, err := NewProfileService(profiles, new(MockUserRepository)).Get(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 30, got.Age)
}
