package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// ProfileRepository implements domain.ProfileRepository
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, display_name, sex, age, COALESCE(height_cm, 0), COALESCE(weight_kg, 0),
		       allergies, onboarding_complete, created_at, updated_at
		FROM user_information
		WHERE user_id = $1
	`
	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Sex,
		&p.Age,
		&p.HeightCm,
		&p.WeightKg,
		&p.Allergies,
		&p.OnboardingComplete,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	return &p, nil
}

// Upsert inserts or updates the profile, always marking onboarding complete
func (r *ProfileRepository) Upsert(ctx context.Context, input *domain.ProfileUpsert) (*domain.Profile, error) {
	allergies := input.Allergies
	if allergies == nil {
		allergies = []string{}
	}

	query := `
		INSERT INTO user_information
			(user_id, display_name, sex, age, height_cm, weight_kg, allergies, onboarding_complete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			sex = EXCLUDED.sex,
			age = EXCLUDED.age,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			allergies = EXCLUDED.allergies,
			onboarding_complete = TRUE,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	p := domain.Profile{
		UserID:             input.UserID,
		DisplayName:        input.DisplayName,
		Sex:                input.Sex,
		Age:                input.Age,
		HeightCm:           input.HeightCm,
		WeightKg:           input.WeightKg,
		Allergies:          allergies,
		OnboardingComplete: true,
	}
	err := r.pool.QueryRow(ctx, query,
		input.UserID,
		input.DisplayName,
		input.Sex,
		input.Age,
		input.HeightCm,
		input.WeightKg,
		allergies,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &p, nil
}

// HeightGroups aggregates profiles per recorded height
func (r *ProfileRepository) HeightGroups(ctx context.Context) ([]domain.HeightGroup, error) {
	query := `
		SELECT height_cm, COUNT(*), COALESCE(AVG(weight_kg), 0)::float8
		FROM user_information
		WHERE height_cm IS NOT NULL
		GROUP BY height_cm
		ORDER BY height_cm
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query height groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.HeightGroup
	for rows.Next() {
		var g domain.HeightGroup
		if err := rows.Scan(&g.HeightCm, &g.Users, &g.AvgWeightKg); err != nil {
			return nil, fmt.Errorf("failed to scan height group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate height groups: %w", err)
	}
	return groups, nil
}
