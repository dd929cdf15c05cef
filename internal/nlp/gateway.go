package nlp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// FallbackMessage is shown whenever no provider could answer
const FallbackMessage = "Lo siento, el servicio de chat no está disponible en este momento. Por favor, inténtalo más tarde."

// DefaultTimeout bounds a single provider call
const DefaultTimeout = 10 * time.Second

// Fallback returns the canned payload substituted for failed calls
func Fallback() domain.NLPResponse {
	return domain.NLPResponse{
		Response:   FallbackMessage,
		Intent:     domain.IntentFallback,
		Confidence: 0.0,
	}
}

// Gateway invokes the configured provider with a deadline and never
// surfaces provider errors to its caller.
type Gateway struct {
	router   *Router
	provider string
	timeout  time.Duration
}

// NewGateway creates a gateway over the router's provider. An empty
// provider name selects the router default.
func NewGateway(router *Router, provider string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{router: router, provider: provider, timeout: timeout}
}

// Invoke sends one message and returns the provider reply or the fallback
func (g *Gateway) Invoke(ctx context.Context, req domain.NLPRequest) domain.NLPResponse {
	p, err := g.router.GetProvider(g.provider)
	if err != nil {
		log.Error().Err(err).Str("provider", g.provider).Msg("NLP provider unavailable")
		return Fallback()
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.Answer(callCtx, req)
	if err != nil {
		event := log.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			event = log.Warn()
		}
		event.Err(err).
			Str("provider", p.Name()).
			Dur("elapsed", time.Since(start)).
			Bool("is_admin", req.IsAdmin).
			Msg("NLP call failed, using fallback")
		return Fallback()
	}
	if resp == nil || strings.TrimSpace(resp.Response) == "" {
		log.Warn().Str("provider", p.Name()).Msg("NLP provider returned an empty response")
		return Fallback()
	}

	log.Debug().
		Str("provider", p.Name()).
		Str("intent", resp.Intent).
		Float64("confidence", resp.Confidence).
		Dur("elapsed", time.Since(start)).
		Msg("NLP call completed")
	return *resp
}
