package nlp

import (
	"context"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// Provider defines the interface for language backends
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider has the settings it needs
	IsConfigured() bool

	// Answer produces a reply to one user message
	Answer(ctx context.Context, req domain.NLPRequest) (*domain.NLPResponse, error)
}
