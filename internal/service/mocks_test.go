package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Rrens/nutrisaas-chat/internal/conversation"
	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// MockSessionStore mocks the SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(ctx context.Context, id uuid.UUID) (*conversation.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversation.Session), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, session *conversation.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) TryLock(ctx context.Context, id uuid.UUID) (func(), bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(func()), args.Bool(1), args.Error(2)
}

// MockProfileRepository mocks the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, input *domain.ProfileUpsert) (*domain.Profile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) HeightGroups(ctx context.Context) ([]domain.HeightGroup, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.HeightGroup), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockChatLogRepository mocks the ChatLogRepository interface
type MockChatLogRepository struct {
	mock.Mock
}

func (m *MockChatLogRepository) Create(ctx context.Context, exchange *domain.ChatExchange) error {
	args := m.Called(ctx, exchange)
	return args.Error(0)
}

func (m *MockChatLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatExchange, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.ChatExchange), args.Error(1)
}

// MockNLPGateway mocks the conversation NLPGateway interface
type MockNLPGateway struct {
	mock.Mock
}

func (m *MockNLPGateway) Invoke(ctx context.Context, req domain.NLPRequest) domain.NLPResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.NLPResponse)
}
