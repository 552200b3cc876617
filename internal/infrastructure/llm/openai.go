package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
	"github.com/zetruc/pulse/internal/core/report"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	reasoningBetaHeader = "reasoning-alpha-20250109"
	maxErrorBody        = 512
	defaultCallTimeout  = 60 * time.Second
)

// OpenAIClient calls the Responses and Chat Completions APIs.
type OpenAIClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewOpenAIClient builds a client. Per-call deadlines come from the request
// timeout, so httpClient should not set its own.
func NewOpenAIClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

var _ ports.LLMClient = (*OpenAIClient)(nil)

func (c *OpenAIClient) Provider() domain.Provider { return domain.ProviderOpenAI }

// --- Responses API ---

type inputPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type inputMessage struct {
	Role    string      `json:"role"`
	Content []inputPart `json:"content"`
}

type textFormat struct {
	Type   string         `json:"type"`
	Name   string         `json:"name,omitempty"`
	Schema map[string]any `json:"schema,omitempty"`
}

type userLocation struct {
	Type string `json:"type"`
}

type webSearchTool struct {
	Type              string       `json:"type"`
	UserLocation      userLocation `json:"user_location"`
	SearchContextSize string       `json:"search_context_size"`
}

type reasoning struct {
	Effort string `json:"effort,omitempty"`
}

type textOptions struct {
	Format textFormat `json:"format"`
}

type responsesRequest struct {
	Model           string          `json:"model"`
	Instructions    string          `json:"instructions,omitempty"`
	Input           []inputMessage  `json:"input"`
	Text            textOptions     `json:"text"`
	Reasoning       reasoning       `json:"reasoning"`
	Tools           []webSearchTool `json:"tools,omitempty"`
	Temperature     *float64        `json:"temperature,omitempty"`
	TopP            *float64        `json:"top_p,omitempty"`
	MaxOutputTokens int             `json:"max_output_tokens,omitempty"`
	Store           bool            `json:"store"`
	Include         []string        `json:"include,omitempty"`
}

func newResponsesRequest(req ports.LLMRequest) responsesRequest {
	body := responsesRequest{
		Model:           req.Model,
		Instructions:    req.System,
		Input:           []inputMessage{{Role: "user", Content: []inputPart{{Type: "input_text", Text: req.Prompt}}}},
		Reasoning:       reasoning{Effort: req.ReasoningEffort},
		Temperature:     req.Temperature,
		TopP:            req.TopP,
		MaxOutputTokens: req.MaxTokens,
		Store:           req.Store,
	}
	switch {
	case req.Schema != nil:
		body.Text.Format = textFormat{Type: "json_schema", Name: req.Schema.Name, Schema: req.Schema.Schema}
	case req.JSONObject:
		body.Text.Format = textFormat{Type: "json_object"}
	default:
		body.Text.Format = textFormat{Type: "text"}
	}
	if req.WebSearch {
		body.Tools = []webSearchTool{{
			Type:              "web_search",
			UserLocation:      userLocation{Type: "approximate"},
			SearchContextSize: "medium",
		}}
		body.Include = []string{"web_search_call.action.sources"}
	}
	return body
}

// --- Chat Completions API ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	TopP           *float64        `json:"top_p,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func newChatRequest(req ports.LLMRequest) chatRequest {
	body := chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})
	if req.JSONObject || req.Schema != nil {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return body
}

// Generate sends req to the endpoint it names and extracts the answer.
func (c *OpenAIClient) Generate(ctx context.Context, apiKey string, req ports.LLMRequest) (resp *ports.LLMResponse, err error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() { observe(domain.ProviderOpenAI, req.Model, start, err) }()

	var (
		path string
		body any
	)
	switch req.Endpoint {
	case ports.EndpointChat:
		path, body = "/chat/completions", newChatRequest(req)
	default:
		path, body = "/responses", newResponsesRequest(req)
	}

	raw, err := c.post(ctx, apiKey, path, body, req.ReasoningEffort != "")
	if err != nil {
		return nil, upstream(domain.ProviderOpenAI, err)
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, upstream(domain.ProviderOpenAI, fmt.Errorf("decode response: %w", err))
	}

	out := &ports.LLMResponse{Raw: payload}
	if req.Endpoint == ports.EndpointChat {
		var chat chatResponse
		if err := json.Unmarshal(raw, &chat); err == nil && len(chat.Choices) > 0 {
			out.Text = chat.Choices[0].Message.Content
		}
		return out, nil
	}

	out.Text = report.ExtractText(payload)
	if structured, ok := report.ExtractStructured(payload); ok {
		out.Structured = structured
	}
	return out, nil
}

func (c *OpenAIClient) post(ctx context.Context, apiKey, path string, body any, reasoningBeta bool) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	if reasoningBeta {
		httpReq.Header.Set("OpenAI-Beta", reasoningBetaHeader)
	}

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail := strings.TrimSpace(string(data))
		if len(detail) > maxErrorBody {
			detail = detail[:maxErrorBody]
		}
		c.log.Warn().Int("status", res.StatusCode).Str("path", path).Msg("openai request failed")
		return nil, fmt.Errorf("openai %s returned %d: %s", path, res.StatusCode, detail)
	}
	return data, nil
}
