package ports

import (
	"context"
	"time"

	"github.com/zetruc/pulse/internal/core/domain"
)

// Endpoint selects the provider API family used for a request.
type Endpoint string

const (
	// EndpointResponses is the agentic API that supports tools and schemas.
	EndpointResponses Endpoint = "responses"
	// EndpointChat is the plain chat completion API.
	EndpointChat Endpoint = "chat"
)

// JSONSchema asks the provider for output conforming to Schema.
type JSONSchema struct {
	Name   string
	Schema map[string]any
}

// LLMRequest is a provider neutral generation request.
type LLMRequest struct {
	Endpoint        Endpoint
	Model           string
	System          string
	Prompt          string
	Temperature     *float64
	TopP            *float64
	MaxTokens       int
	JSONObject      bool        // free-form JSON object output
	Schema          *JSONSchema // structured output, wins over JSONObject
	WebSearch       bool
	ReasoningEffort string
	Store           bool
	Timeout         time.Duration
}

// LLMResponse carries the generated text and, when the provider returned
// one, an already decoded structured value. Raw is the decoded payload.
type LLMResponse struct {
	Text       string
	Structured any
	Raw        any
}

// LLMClient talks to one provider.
type LLMClient interface {
	Provider() domain.Provider
	// Generate returns domain.ErrUpstream wrapped errors for transport and
	// non-2xx failures.
	Generate(ctx context.Context, apiKey string, req LLMRequest) (*LLMResponse, error)
}

// LLMClients resolves a client by provider.
type LLMClients interface {
	Client(provider domain.Provider) (LLMClient, error)
}

// SealedKey is an AES-GCM encrypted secret. Every field is base64.
type SealedKey struct {
	Ciphertext string
	IV         string
	Tag        string
}

// KeyBox encrypts and decrypts provider keys.
type KeyBox interface {
	Seal(plain string) (SealedKey, error)
	Open(sealed SealedKey) (string, error)
}

// KeyResolver returns the clear API key of a provider.
type KeyResolver interface {
	// Resolve returns domain.ErrLLMKeyMissing when no usable key is stored.
	Resolve(ctx context.Context, provider domain.Provider) (string, error)
}
