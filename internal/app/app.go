// Package app wires configuration into the stores, gateways and services
// shared by the server and the terminal client.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/nutrisaas-chat/internal/api"
	"github.com/Rrens/nutrisaas-chat/internal/api/handler"
	"github.com/Rrens/nutrisaas-chat/internal/config"
	"github.com/Rrens/nutrisaas-chat/internal/conversation"
	"github.com/Rrens/nutrisaas-chat/internal/domain"
	"github.com/Rrens/nutrisaas-chat/internal/nlp"
	"github.com/Rrens/nutrisaas-chat/internal/nlp/gemini"
	"github.com/Rrens/nutrisaas-chat/internal/nlp/intentsvc"
	"github.com/Rrens/nutrisaas-chat/internal/nlp/ollama"
	"github.com/Rrens/nutrisaas-chat/internal/report"
	"github.com/Rrens/nutrisaas-chat/internal/repository/memory"
	"github.com/Rrens/nutrisaas-chat/internal/repository/mongo"
	"github.com/Rrens/nutrisaas-chat/internal/repository/postgres"
	"github.com/Rrens/nutrisaas-chat/internal/repository/redis"
	"github.com/Rrens/nutrisaas-chat/internal/repository/sqlstore"
	"github.com/Rrens/nutrisaas-chat/internal/security"
	"github.com/Rrens/nutrisaas-chat/internal/service"
)

// App holds every wired component
type App struct {
	Controller *conversation.Controller
	Chat       *service.ChatService
	Profiles   *service.ProfileService
	Exchanges  *service.ExchangeRecorder
	JWT        *security.JWTManager

	ready   map[string]handler.Pinger
	closers []io.Closer
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

type storage struct {
	profiles domain.ProfileRepository
	users    domain.UserRepository
	chatlog  domain.ChatLogRepository
}

// New connects to the configured backends. On error, everything opened so
// far is closed again.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{ready: make(map[string]handler.Pinger)}
	if err := a.wire(ctx, cfg); err != nil {
		a.closeAll()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, cfg *config.Config) error {
	store, err := a.openStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}

	sessions, err := a.openSessions(cfg)
	if err != nil {
		return err
	}

	sinks := []domain.ChatLogRepository{store.chatlog}
	if cfg.Mongo.Enabled {
		client, err := mongo.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, client)
		a.ready["mongo"] = client
		sinks = append(sinks, mongo.NewChatLogRepository(client))
		log.Info().Str("database", cfg.Mongo.Database).Msg("Chat exchanges mirrored to MongoDB")
	}
	a.Exchanges = service.NewExchangeRecorder(sinks...)

	machine := conversation.NewMachine(conversation.Config{
		FAQURL:    cfg.Conversation.FAQURL,
		SignupURL: cfg.Conversation.SignupURL,
		Bounds: conversation.Bounds{
			MaxHeightCm: cfg.Conversation.MaxHeightCm,
			MaxWeightKg: cfg.Conversation.MaxWeightKg,
		},
		ReportKeywords: cfg.Conversation.ReportKeywords,
	})
	a.Controller = conversation.NewController(
		machine,
		store.profiles,
		a.newGateway(cfg.NLP),
		conversation.WithExchangeLogger(a.Exchanges),
		conversation.WithReportSource(report.NewService(store.profiles)),
		conversation.WithLogTimeout(cfg.Conversation.LogTimeout),
	)

	a.Chat = service.NewChatService(a.Controller, sessions)
	a.Profiles = service.NewProfileService(store.profiles, store.users)
	a.JWT = security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	return nil
}

func (a *App) openStorage(ctx context.Context, cfg config.DatabaseConfig) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMySQL, config.DriverSQLite:
		db, err := sqlstore.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
		}
		a.closers = append(a.closers, db)
		a.ready["database"] = db
		return &storage{
			profiles: sqlstore.NewProfileRepository(db),
			users:    sqlstore.NewUserRepository(db),
			chatlog:  sqlstore.NewChatLogRepository(db),
		}, nil

	default:
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, closeFunc(func() error { db.Close(); return nil }))
		a.ready["database"] = db
		return &storage{
			profiles: postgres.NewProfileRepository(db.Pool),
			users:    postgres.NewUserRepository(db.Pool),
			chatlog:  postgres.NewChatLogRepository(db.Pool),
		}, nil
	}
}

func (a *App) openSessions(cfg *config.Config) (service.SessionStore, error) {
	if cfg.Conversation.SessionStore == config.SessionStoreMemory {
		log.Warn().Msg("Using in-process session store; sessions are lost on restart")
		return memory.NewSessionStore(cfg.Conversation.SessionTTL), nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client)
	a.ready["redis"] = client
	return redis.NewSessionStore(client, cfg.Conversation.SessionTTL), nil
}

func (a *App) newGateway(cfg config.NLPConfig) *nlp.Gateway {
	router := nlp.NewRouter(cfg.Provider)

	if cfg.IntentService.URL != "" {
		provider := intentsvc.NewProvider(cfg.IntentService.URL)
		router.RegisterProvider(provider)
		a.ready["nlp"] = provider
	}
	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.Model))
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini.APIKey, cfg.Gemini.Model))
	}

	for _, info := range router.GetProvidersInfo() {
		log.Info().
			Str("provider", info.Name).
			Bool("configured", info.Configured).
			Bool("default", info.Default).
			Msg("NLP provider available")
	}
	if !router.DefaultConfigured() {
		log.Warn().
			Str("provider", router.DefaultProvider()).
			Strs("configured", router.ListProviders()).
			Msg("Default NLP provider is not configured; free text will get the fallback answer")
	}

	return nlp.NewGateway(router, cfg.Provider, cfg.Timeout)
}

// Services exposes the components the HTTP router needs
func (a *App) Services() api.Services {
	return api.Services{
		Chat:      a.Chat,
		Profiles:  a.Profiles,
		Exchanges: a.Exchanges,
		JWT:       a.JWT,
		Ready:     a.ready,
	}
}

// Close waits for pending exchange writes, then releases all connections
func (a *App) Close() {
	if a.Controller != nil {
		a.Controller.Wait()
	}
	a.closeAll()
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close resource")
		}
	}
	a.closers = nil
}
