package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/nutrisaas-chat/internal/api/middleware"
	"github.com/Rrens/nutrisaas-chat/internal/api/response"
	"github.com/Rrens/nutrisaas-chat/internal/conversation"
	"github.com/Rrens/nutrisaas-chat/internal/service"
)

var validate = validator.New()

// TurnRequest is one user submission: typed text, a clicked option, or both
type TurnRequest struct {
	Text   string `json:"text" validate:"max=2000"`
	Intent string `json:"intent" validate:"omitempty,max=64"`
}

// ChatHandler serves the sessions of one audience
type ChatHandler struct {
	chatService *service.ChatService
	audience    conversation.Audience
}

// NewChatHandler creates a chat handler bound to an audience
func NewChatHandler(chatService *service.ChatService, audience conversation.Audience) *ChatHandler {
	return &ChatHandler{chatService: chatService, audience: audience}
}

// Create opens a new session
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatService.Start(r.Context(), h.audience, h.identity(r))
	if err != nil {
		writeChatError(w, err)
		return
	}

	response.Created(w, view)
}

// Get returns the current transcript and expected input
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	view, err := h.chatService.Get(r.Context(), h.audience, sessionID, h.identity(r))
	if err != nil {
		writeChatError(w, err)
		return
	}

	response.OK(w, view)
}

// Turn submits one user input
func (h *ChatHandler) Turn(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string)
			for _, e := range validationErrors {
				fields[e.Field()] = "must be at most " + e.Param() + " characters"
			}
			response.BadRequest(w, fields)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	in := conversation.Input{Text: req.Text, Intent: conversation.Intent(req.Intent)}
	view, err := h.chatService.Turn(r.Context(), h.audience, sessionID, h.identity(r), in)
	if err != nil {
		writeChatError(w, err)
		return
	}

	response.OK(w, view)
}

// End discards a session
func (h *ChatHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	if err := h.chatService.End(r.Context(), h.audience, sessionID, h.identity(r)); err != nil {
		writeChatError(w, err)
		return
	}

	response.NoContent(w)
}

// identity is nil for guests, who never carry one even when a token is sent
func (h *ChatHandler) identity(r *http.Request) *conversation.Identity {
	if h.audience == conversation.AudienceGuest {
		return nil
	}
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return nil
	}
	username, _ := middleware.GetUsername(r.Context())
	return &conversation.Identity{ID: userID, Username: username}
}

func writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(w, "session not found")
	case errors.Is(err, service.ErrSessionBusy):
		response.Conflict(w, "session is processing another turn")
	case errors.Is(err, conversation.ErrOwnerMismatch):
		response.Forbidden(w, "session belongs to another user")
	case errors.Is(err, conversation.ErrUnauthenticated):
		response.Unauthorized(w, "authentication required")
	case errors.Is(err, conversation.ErrInvalidAudience):
		response.BadRequest(w, "invalid audience")
	default:
		log.Error().Err(err).Msg("Chat request failed")
		response.InternalError(w, "failed to process chat request")
	}
}

// HistoryHandler lists the recorded exchanges of the caller
type HistoryHandler struct {
	exchanges *service.ExchangeRecorder
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(exchanges *service.ExchangeRecorder) *HistoryHandler {
	return &HistoryHandler{exchanges: exchanges}
}

// List returns recent exchanges, newest first
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	exchanges, err := h.exchanges.History(r.Context(), userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list chat history")
		response.InternalError(w, "failed to list chat history")
		return
	}

	response.OK(w, exchanges)
}
