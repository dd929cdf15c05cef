// Package intentsvc talks to the standalone intent-classification service
// that answers POST /chatbot with {response, intent, confidence}.
package intentsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/nutrisaas-chat/internal/domain"
)

// Provider implements nlp.Provider for the intent service
type Provider struct {
	baseURL string
	client  *http.Client
}

// NewProvider creates a new intent service provider
func NewProvider(baseURL string) *Provider {
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "intentsvc"
}

// IsConfigured checks if the service URL is set
func (p *Provider) IsConfigured() bool {
	return p.baseURL != ""
}

// Answer forwards the message to the service
func (p *Provider) Answer(ctx context.Context, req domain.NLPRequest) (*domain.NLPResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chatbot", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("intent service returned status %d", resp.StatusCode)
	}

	var out domain.NLPResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &out, nil
}

// Ping checks the service health endpoint
func (p *Provider) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("intent service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
