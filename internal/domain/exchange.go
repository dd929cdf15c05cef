package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AdminQuestionPrefix marks exchanges asked from an admin session
const AdminQuestionPrefix = "[ADMIN] "

// ChatExchange is one question/answer pair recorded for an authenticated user
type ChatExchange struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChatLogRepository defines the interface for exchange archives
type ChatLogRepository interface {
	Create(ctx context.Context, exchange *ChatExchange) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]ChatExchange, error)
}
