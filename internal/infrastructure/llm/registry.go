// Package llm holds the outbound model clients: OpenAI over plain HTTP and
// Gemini through the genai SDK.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/zetruc/pulse/internal/api/metrics"
	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

// Registry resolves a client by provider.
type Registry struct {
	clients map[domain.Provider]ports.LLMClient
}

func NewRegistry(clients ...ports.LLMClient) *Registry {
	r := &Registry{clients: make(map[domain.Provider]ports.LLMClient, len(clients))}
	for _, c := range clients {
		r.clients[c.Provider()] = c
	}
	return r
}

var _ ports.LLMClients = (*Registry)(nil)

func (r *Registry) Client(provider domain.Provider) (ports.LLMClient, error) {
	c, ok := r.clients[provider]
	if !ok {
		return nil, fmt.Errorf("no llm client registered for %s", provider)
	}
	return c, nil
}

// observe records the outcome of one provider call.
func observe(provider domain.Provider, model string, start time.Time, err error) {
	outcome := "ok"
	var netErr net.Error
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		outcome = "timeout"
	default:
		outcome = "error"
	}
	metrics.LLMRequestDuration.WithLabelValues(string(provider), model, outcome).Observe(time.Since(start).Seconds())
}

func upstream(provider domain.Provider, err error) error {
	if errors.Is(err, domain.ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUpstream, provider, err)
}
