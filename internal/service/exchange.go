package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// ExchangeRecorder writes each exchange to every configured archive
type ExchangeRecorder struct {
	sinks []domain.ChatLogRepository
}

// NewExchangeRecorder creates a recorder over the given archives; nil
// entries are skipped.
func NewExchangeRecorder(sinks ...domain.ChatLogRepository) *ExchangeRecorder {
	r := &ExchangeRecorder{}
	for _, sink := range sinks {
		if sink != nil {
			r.sinks = append(r.sinks, sink)
		}
	}
	return r
}

// Record writes to all sinks, returning the joined errors of those that failed
func (r *ExchangeRecorder) Record(ctx context.Context, exchange *domain.ChatExchange) error {
	var errs []error
	for _, sink := range r.sinks {
		if err := sink.Create(ctx, exchange); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// History lists recent exchanges of a user from the primary archive
func (r *ExchangeRecorder) History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatExchange, error) {
	if len(r.sinks) == 0 {
		return []domain.ChatExchange{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return r.sinks[0].ListByUser(ctx, userID, limit)
}
