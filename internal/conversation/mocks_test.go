package conversation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// MockProfileStore mocks the ProfileStore interface
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) Upsert(ctx context.Context, input *domain.ProfileUpsert) (*domain.Profile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockNLPGateway mocks the NLPGateway interface
type MockNLPGateway struct {
	mock.Mock
}

func (m *MockNLPGateway) Invoke(ctx context.Context, req domain.NLPRequest) domain.NLPResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.NLPResponse)
}

// MockReportSource mocks the ReportSource interface
type MockReportSource struct {
	mock.Mock
}

func (m *MockReportSource) HeightReport(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// recordingLogger captures exchanges written in the background
type recordingLogger struct {
	mu        sync.Mutex
	exchanges []domain.ChatExchange
	err       error
}

func (r *recordingLogger) Record(_ context.Context, exchange *domain.ChatExchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchanges = append(r.exchanges, *exchange)
	return r.err
}

func (r *recordingLogger) all() []domain.ChatExchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ChatExchange(nil), r.exchanges...)
}
