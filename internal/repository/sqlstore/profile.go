package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// ProfileRepository implements domain.ProfileRepository
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, display_name, sex, age, COALESCE(height_cm, 0), COALESCE(weight_kg, 0),
		       allergies, onboarding_complete, created_at, updated_at
		FROM user_information
		WHERE user_id = ?
	`
	var (
		p         domain.Profile
		allergies []byte
	)
	err := r.db.SQL.QueryRowContext(ctx, query, userID.String()).Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Sex,
		&p.Age,
		&p.HeightCm,
		&p.WeightKg,
		&allergies,
		&p.OnboardingComplete,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Allergies = []string{}
	if len(allergies) > 0 {
		if err := json.Unmarshal(allergies, &p.Allergies); err != nil {
			return nil, fmt.Errorf("failed to decode allergies: %w", err)
		}
	}
	return &p, nil
}

// Upsert inserts or updates the profile, always marking onboarding complete
func (r *ProfileRepository) Upsert(ctx context.Context, input *domain.ProfileUpsert) (*domain.Profile, error) {
	allergies := input.Allergies
	if allergies == nil {
		allergies = []string{}
	}
	encoded, err := json.Marshal(allergies)
	if err != nil {
		return nil, fmt.Errorf("failed to encode allergies: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.SQL.ExecContext(ctx, r.upsertQuery(),
		input.UserID.String(),
		input.DisplayName,
		input.Sex,
		input.Age,
		input.HeightCm,
		input.WeightKg,
		string(encoded),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return r.Get(ctx, input.UserID)
}

func (r *ProfileRepository) upsertQuery() string {
	insert := `
		INSERT INTO user_information
			(user_id, display_name, sex, age, height_cm, weight_kg, allergies, onboarding_complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?, ?)
	`
	if r.db.dialect == DialectMySQL {
		return insert + `
		ON DUPLICATE KEY UPDATE
			display_name = VALUES(display_name),
			sex = VALUES(sex),
			age = VALUES(age),
			height_cm = VALUES(height_cm),
			weight_kg = VALUES(weight_kg),
			allergies = VALUES(allergies),
			onboarding_complete = TRUE,
			updated_at = VALUES(updated_at)
		`
	}
	return insert + `
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = excluded.display_name,
			sex = excluded.sex,
			age = excluded.age,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			allergies = excluded.allergies,
			onboarding_complete = TRUE,
			updated_at = excluded.updated_at
	`
}

// HeightGroups aggregates profiles per recorded height
func (r *ProfileRepository) HeightGroups(ctx context.Context) ([]domain.HeightGroup, error) {
	query := `
		SELECT height_cm, COUNT(*), COALESCE(AVG(weight_kg), 0)
		FROM user_information
		WHERE height_cm IS NOT NULL
		GROUP BY height_cm
		ORDER BY height_cm
	`
	rows, err := r.db.SQL.QueryContext(ctx, query)
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
