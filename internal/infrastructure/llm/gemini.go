package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient generates with the Gemini API. A genai client is built per
// call because the API key is resolved per call.
type GeminiClient struct {
	model     string
	log       zerolog.Logger
	newClient func(ctx context.Context, apiKey string) (*genai.Client, error)
}

func NewGeminiClient(model string, log zerolog.Logger) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		model: model,
		log:   log,
		newClient: func(ctx context.Context, apiKey string) (*genai.Client, error) {
			return genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
		},
	}
}

var _ ports.LLMClient = (*GeminiClient)(nil)

func (c *GeminiClient) Provider() domain.Provider { return domain.ProviderGemini }

// modelFor keeps Gemini model names and maps anything else to the default.
func (c *GeminiClient) modelFor(req ports.LLMRequest) string {
	if strings.HasPrefix(req.Model, "gemini") {
		return req.Model
	}
	return c.model
}

// generateConfig maps a request onto genai options. Search grounding and a
// JSON response type cannot be combined, so JSON output is only requested
// without web search.
func generateConfig(req ports.LLMRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.TopP != nil {
		cfg.TopP = genai.Ptr(float32(*req.TopP))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.WebSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else if req.JSONObject || req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

func (c *GeminiClient) Generate(ctx context.Context, apiKey string, req ports.LLMRequest) (resp *ports.LLMResponse, err error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := c.modelFor(req)
	start := time.Now()
	defer func() { observe(domain.ProviderGemini, model, start, err) }()

	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, upstream(domain.ProviderGemini, fmt.Errorf("client: %w", err))
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), generateConfig(req))
	if err != nil {
		c.log.Warn().Err(err).Str("model", model).Msg("gemini request failed")
		return nil, upstream(domain.ProviderGemini, err)
	}

	out := &ports.LLMResponse{Text: result.Text()}
	if b, err := json.Marshal(result); err == nil {
		var raw any
		if json.Unmarshal(b, &raw) == nil {
			out.Raw = raw
		}
	}
	return out, nil
}
