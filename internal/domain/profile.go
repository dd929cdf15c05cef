package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the structured nutrition profile of a member
type Profile struct {
	UserID             uuid.UUID `json:"user_id"`
	DisplayName        string    `json:"display_name"`
	Sex                string    `json:"sex"`
	Age                int       `json:"age"`
	HeightCm           int       `json:"height_cm"`
	WeightKg           int       `json:"weight_kg"`
	Allergies          []string  `json:"allergies"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ProfileUpsert is the complete set of fields written at the end of onboarding
type ProfileUpsert struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	DisplayName string    `json:"display_name"`
	Sex         string    `json:"sex" validate:"required,oneof=Masculino Femenino"`
	Age         int       `json:"age" validate:"gt=0,lt=120"`
	HeightCm    int       `json:"height_cm" validate:"gt=0"`
	WeightKg    int       `json:"weight_kg" validate:"gt=0"`
	Allergies   []string  `json:"allergies" validate:"dive,required"`
}

// HeightGroup is one row of the admin height report
type HeightGroup struct {
	HeightCm    int     `json:"height_cm"`
	Users       int     `json:"users"`
	AvgWeightKg float64 `json:"avg_weight_kg"`
}

// ProfileRepository defines the interface for profile storage.
// Get returns (nil, nil) when the user has no profile yet.
type ProfileRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, input *ProfileUpsert) (*Profile, error)
	HeightGroups(ctx context.Context) ([]HeightGroup, error)
}
