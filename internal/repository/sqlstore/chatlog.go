package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// ChatLogRepository implements domain.ChatLogRepository over chatbot_data
type ChatLogRepository struct {
	db *DB
}

// NewChatLogRepository creates a new chat log repository
func NewChatLogRepository(db *DB) *ChatLogRepository {
	return &ChatLogRepository{db: db}
}

func (r *ChatLogRepository) Create(ctx context.Context, exchange *domain.ChatExchange) error {
	query := `
		INSERT INTO chatbot_data (id, user_id, question, answer, intent, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.SQL.ExecContext(ctx, query,
		exchange.ID.String(),
		exchange.UserID.String(),
		exchange.Question,
		exchange.Answer,
		exchange.Intent,
		exchange.Confidence,
		exchange.CreatedAt.UTC(),
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
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.SQL.QueryContext(ctx, query, userID.String(), limit)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat exchanges: %w", err)
	}
	return exchanges, nil
}
