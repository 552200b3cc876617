package domain

import "time"

// Provider identifies an LLM vendor whose API key is managed by an admin.
type Provider string

const (
	ProviderOpenAI Provider = "OPENAI"
	ProviderGemini Provider = "GEMINI"
)

// Providers lists the supported providers in display order.
var Providers = []Provider{ProviderGemini, ProviderOpenAI}

// Valid reports whether p is a supported provider.
func (p Provider) Valid() bool {
	return p == ProviderOpenAI || p == ProviderGemini
}

// LLMKey is an encrypted provider credential. The clear key is never stored;
// Last4 is kept for display.
type LLMKey struct {
	Provider      Provider  `json:"provider"`
	KeyCiphertext string    `json:"-"`
	KeyIV         string    `json:"-"`
	KeyTag        string    `json:"-"`
	Last4         string    `json:"last4"`
	CreatedByID   string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
