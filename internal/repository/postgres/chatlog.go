package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// ChatLogRepository implements domain.ChatLogRepository over chatbot_data
type ChatLogRepository struct {
	pool *pgxpool.Pool
}

// NewChatLogRepository creates a new chat log repository
func NewChatLogRepository(pool *pgxpool.Pool) *ChatLogRepository {
	return &ChatLogRepository{pool: pool}
}

func (r *ChatLogRepository) Create(ctx context.Context, exchange *domain.ChatExchange) error {
	query := `
		INSERT INTO chatbot_data (id, user_id, question, answer, intent, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		exchange.ID,
		exchange.UserID,
		exchange.Question,
		exchange.Answer,
		exchange.Intent,
		exchange.Confidence,
		exchange.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat exchange: %w", err)
	}
	return nil
}

func (r *ChatLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatExchange, error) {
	query := `
		SELECT id, user_id, question, answer, intent, confidence, created_at
		FROM chatbot_data
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []domain.ChatExchange
	for rows.Next() {
		var e domain.ChatExchange
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Question,
			&e.Answer,
			&e.Intent,
			&e.Confidence,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}
	return exchanges, nil
}
