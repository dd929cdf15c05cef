package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/nutrisaas-chat/internal/conversation"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session is processing another turn")
)

// SessionStore persists conversation sessions between requests.
// Get returns (nil, nil) for a missing or expired session.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*conversation.Session, error)
	Save(ctx context.Context, session *conversation.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	TryLock(ctx context.Context, id uuid.UUID) (unlock func(), ok bool, err error)
}

// ChatService handles conversation session operations
type ChatService struct {
	controller *conversation.Controller
	sessions   SessionStore
}

// NewChatService creates a new chat service
func NewChatService(controller *conversation.Controller, sessions SessionStore) *ChatService {
	return &ChatService{
		controller: controller,
		sessions:   sessions,
	}
}

// Start opens a new session and stores it
func (s *ChatService) Start(ctx context.Context, aud conversation.Audience, owner *conversation.Identity) (*conversation.View, error) {
	session, err := s.controller.Start(ctx, aud, owner)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Debug().
		Str("session_id", session.ID.String()).
		Str("audience", string(aud)).
		Msg("Session started")

	view := s.controller.View(session)
	return &view, nil
}

// Get returns the current view of a session
func (s *ChatService) Get(ctx context.Context, aud conversation.Audience, id uuid.UUID, owner *conversation.Identity) (*conversation.View, error) {
	session, err := s.load(ctx, aud, id, owner)
	if err != nil {
		return nil, err
	}
	view := s.controller.View(session)
	return &view, nil
}

// Turn applies one user input. A second turn arriving while one is in
// flight for the same session fails with ErrSessionBusy.
func (s *ChatService) Turn(ctx context.Context, aud conversation.Audience, id uuid.UUID, owner *conversation.Identity, in conversation.Input) (*conversation.View, error) {
	unlock, ok, err := s.sessions.TryLock(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	defer unlock()

	session, err := s.load(ctx, aud, id, owner)
	if err != nil {
		return nil, err
	}

	s.controller.Handle(ctx, session, in)

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	view := s.controller.View(session)
	return &view, nil
}

// End discards a session
func (s *ChatService) End(ctx context.Context, aud conversation.Audience, id uuid.UUID, owner *conversation.Identity) error {
	if _, err := s.load(ctx, aud, id, owner); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// load fetches a session and checks it belongs to the caller. Sessions of
// another audience are reported as missing.
func (s *ChatService) load(ctx context.Context, aud conversation.Audience, id uuid.UUID, owner *conversation.Identity) (*conversation.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Audience != aud {
		return nil, ErrSessionNotFound
	}

	if aud == conversation.AudienceGuest {
		return session, nil
	}
	if owner == nil {
		return nil, conversation.ErrUnauthenticated
	}
	if session.Owner == nil || session.Owner.ID != owner.ID {
		return nil, conversation.ErrOwnerMismatch
	}
	return session, nil
}
