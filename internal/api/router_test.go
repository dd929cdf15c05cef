package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/nutrisaas-chat/internal/api"
	"github.com/Rrens/nutrisaas-chat/internal/api/handler"
	"github.com/Rrens/nutrisaas-chat/internal/config"
	"github.com/Rrens/nutrisaas-chat/internal/conversation"
	"github.com/Rrens/nutrisaas-chat/internal/domain"
	"github.com/Rrens/nutrisaas-chat/internal/report"
	"github.com/Rrens/nutrisaas-chat/internal/repository/memory"
	"github.com/Rrens/nutrisaas-chat/internal/repository/sqlstore"
	"github.com/Rrens/nutrisaas-chat/internal/security"
	"github.com/Rrens/nutrisaas-chat/internal/service"
)

type echoGateway struct{}

func (echoGateway) Invoke(_ context.Context, req domain.NLPRequest) domain.NLPResponse {
	return domain.NLPResponse{Response: "eco: " + req.Message, Intent: "general", Confidence: 0.9}
}

type testEnv struct {
	server     *httptest.Server
	controller *conversation.Controller
	sessions   *memory.SessionStore
	jwt        *security.JWTManager
	member     *domain.User
	admin      *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.OpenDSN(ctx, sqlstore.DialectSQLite, "file:"+filepath.Join(t.TempDir(), "chat.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlstore.NewUserRepository(db)
	member := &domain.User{Username: "ana", Email: "ana@example.com", Role: domain.RoleMember}
	admin := &domain.User{Username: "nutri-admin", Email: "admin@example.com", Role: domain.RoleAdmin}
	require.NoError(t, users.Create(ctx, member))
	require.NoError(t, users.Create(ctx, admin))

	profiles := sqlstore.NewProfileRepository(db)
	recorder := service.NewExchangeRecorder(sqlstore.NewChatLogRepository(db))
	controller := conversation.NewController(
		conversation.NewMachine(conversation.Config{}),
		profiles,
		echoGateway{},
		conversation.WithExchangeLogger(recorder),
		conversation.WithReportSource(report.NewService(profiles)),
	)
	sessions := memory.NewSessionStore(time.Minute)
	jwt := security.NewJWTManager("router-test-secret-key-32-chars", time.Hour)

	cfg := &config.Config{Server: config.ServerConfig{
		WriteTimeout:   5 * time.Second,
		AllowedOrigins: []string{"*"},
	}}
	router := api.NewRouter(cfg, api.Services{
		Chat:      service.NewChatService(controller, sessions),
		Profiles:  service.NewProfileService(profiles, users),
		Exchanges: recorder,
		JWT:       jwt,
		Ready:     map[string]handler.Pinger{"database": db},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:     srv,
		controller: controller,
		sessions:   sessions,
		jwt:        jwt,
		member:     member,
		admin:      admin,
	}
}

func (e *testEnv) token(t *testing.T, u *domain.User) string {
	t.Helper()
	token, err := e.jwt.GenerateAccessToken(u.ID, u.Username)
	require.NoError(t, err)
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func decodeView(t *testing.T, env envelope) conversation.View {
	t.Helper()
	var view conversation.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view
}

func lastBot(view conversation.View) conversation.Turn {
	for i := len(view.Transcript) - 1; i >= 0; i-- {
		if view.Transcript[i].Speaker == conversation.SpeakerBot {
			return view.Transcript[i]
		}
	}
	return conversation.Turn{}
}

func TestGuestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/v1/chat/guest/sessions", "", nil)
	require.Equal(t, http.StatusCreated, status)
	view := decodeView(t, body)
	assert.Equal(t, conversation.AudienceGuest, view.Audience)
	assert.Equal(t, conversation.InputChoice, view.Expect.Kind)

	path := "/api/v1/chat/guest/sessions/" + view.SessionID.String()

	status, body = env.do(t, http.MethodPost, path+"/turns", "", handler.TurnRequest{Intent: string(conversation.IntentPlans)})
	require.Equal(t, http.StatusOK, status)
	view = decodeView(t, body)
	assert.Len(t, lastBot(view).Options, 4)

	status, body = env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeView(t, body).Transcript, len(view.Transcript))

	status, _ = env.do(t, http.MethodDelete, path, "", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = env.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTurnRequestValidation(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, http.MethodPost, "/api/v1/chat/guest/sessions", "", nil)
	path := "/api/v1/chat/guest/sessions/" + decodeView(t, body).SessionID.String()

	status, _ := env.do(t, http.MethodPost, path+"/turns", "", handler.TurnRequest{Text: strings.Repeat("a", 2001)})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, "/api/v1/chat/guest/sessions/not-a-uuid/turns", "", handler.TurnRequest{Text: "hola"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, "/api/v1/chat/guest/sessions/"+uuid.NewString()+"/turns", "", handler.TurnRequest{Text: "hola"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestConcurrentTurnIsRefused(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, http.MethodPost, "/api/v1/chat/guest/sessions", "", nil)
	id := decodeView(t, body).SessionID

	release, ok, err := env.sessions.TryLock(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	defer release()

	status, _ := env.do(t, http.MethodPost, "/api/v1/chat/guest/sessions/"+id.String()+"/turns", "", handler.TurnRequest{Intent: "faq"})
	assert.Equal(t, http.StatusConflict, status)
}

func TestMemberOnboarding(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.member)

	status, _ := env.do(t, http.MethodPost, "/api/v1/chat/member/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"onboarding_complete":false}`, string(body.Data))

	status, body = env.do(t, http.MethodPost, "/api/v1/chat/member/sessions", token, nil)
	require.Equal(t, http.StatusCreated, status)
	path := "/api/v1/chat/member/sessions/" + decodeView(t, body).SessionID.String()

	steps := []handler.TurnRequest{
		{Intent: string(conversation.IntentSexFemale)},
		{Intent: string(conversation.IntentConfirm)},
		{Text: "29"},
		{Intent: string(conversation.IntentConfirm)},
		{Text: "165"},
		{Intent: string(conversation.IntentConfirm)},
		{Text: "60"},
		{Intent: string(conversation.IntentConfirm)},
		{Intent: string(conversation.IntentYes)},
		{Text: "maní"},
		{Intent: string(conversation.IntentDone)},
	}
	var view conversation.View
	for _, step := range steps {
		status, body = env.do(t, http.MethodPost, path+"/turns", token, step)
		require.Equal(t, http.StatusOK, status)
		view = decodeView(t, body)
	}
	assert.Equal(t, conversation.InputFreeText, view.Expect.Kind)

	status, body = env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	var profile domain.Profile
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.True(t, profile.OnboardingComplete)
	assert.Equal(t, "Femenino", profile.Sex)
	assert.Equal(t, 29, profile.Age)
	assert.Equal(t, []string{"maní"}, profile.Allergies)

	// another member cannot read the session
	other := &domain.User{ID: uuid.New(), Username: "luis"}
	status, _ = env.do(t, http.MethodGet, path, env.token(t, other), nil)
	assert.Equal(t, http.StatusForbidden, status)

	// returning member goes straight to free chat
	status, body = env.do(t, http.MethodPost, "/api/v1/chat/member/sessions", token, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, conversation.InputFreeText, decodeView(t, body).Expect.Kind)
}

func TestAdminReportAndHistory(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/api/v1/chat/admin/sessions", env.token(t, env.member), nil)
	assert.Equal(t, http.StatusForbidden, status)

	token := env.token(t, env.admin)
	status, body := env.do(t, http.MethodPost, "/api/v1/chat/admin/sessions", token, nil)
	require.Equal(t, http.StatusCreated, status)
	path := "/api/v1/chat/admin/sessions/" + decodeView(t, body).SessionID.String()

	status, body = env.do(t, http.MethodPost, path+"/turns", token, handler.TurnRequest{Text: "Dame las estadísticas"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, report.NoDataMessage, lastBot(decodeView(t, body)).Text)

	env.controller.Wait()

	status, body = env.do(t, http.MethodGet, "/api/v1/chat/history", token, nil)
	require.Equal(t, http.StatusOK, status)
	var history []domain.ChatExchange
	require.NoError(t, json.Unmarshal(body.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "[ADMIN] Dame las estadísticas", history[0].Question)
	assert.Equal(t, conversation.IntentAdminReport, history[0].Intent)
}

func TestReady(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/api/v1/ready", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body.Data), `"database":"up"`)
}
