package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/api/metrics"
	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
	"github.com/zetruc/pulse/internal/core/report"
)

const (
	maxDomainSuggestions     = 15
	maxCompetitorSuggestions = 20
	// usableAnswerLen is the length an answer must exceed to stop the chain.
	usableAnswerLen = 50
	// minAnswerLen is the shortest answer worth parsing at all.
	minAnswerLen = 10

	defaultSuggestCacheTTL = 6 * time.Hour
)

// SuggestionConfig tunes the suggestion use case.
type SuggestionConfig struct {
	FastModel string
	CacheTTL  time.Duration
}

// competitorAttempt is one step of the competitor search fallback chain.
type competitorAttempt struct {
	source    string
	request   func(prompt string) ports.LLMRequest
	webSearch bool
	acceptAny bool
}

// SuggestionService asks OpenAI for domain and competitor ideas.
type SuggestionService struct {
	projects ports.ProjectRepository
	keys     ports.KeyResolver
	clients  ports.LLMClients
	cache    ports.SuggestionCache
	cfg      SuggestionConfig
	chain    []competitorAttempt
	log      zerolog.Logger
}

func NewSuggestionService(
	projects ports.ProjectRepository,
	keys ports.KeyResolver,
	clients ports.LLMClients,
	cache ports.SuggestionCache,
	cfg SuggestionConfig,
	log zerolog.Logger,
) *SuggestionService {
	if cfg.FastModel == "" {
		cfg.FastModel = "gpt-4o-mini"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultSuggestCacheTTL
	}
	return &SuggestionService{
		projects: projects,
		keys:     keys,
		clients:  clients,
		cache:    cache,
		cfg:      cfg,
		chain:    competitorChain(cfg.FastModel),
		log:      log,
	}
}

func competitorChain(fastModel string) []competitorAttempt {
	return []competitorAttempt{
		{
			source:    "gpt4o-responses",
			webSearch: true,
			request: func(prompt string) ports.LLMRequest {
				return ports.LLMRequest{
					Endpoint:    ports.EndpointResponses,
					Model:       "gpt-4o",
					Prompt:      prompt,
					Temperature: ptr(1.0),
					TopP:        ptr(1.0),
					MaxTokens:   2048,
					WebSearch:   true,
					Timeout:     35 * time.Second,
				}
			},
		},
		{
			source: "gpt4o-chat",
			request: func(prompt string) ports.LLMRequest {
				return ports.LLMRequest{
					Endpoint:    ports.EndpointChat,
					Model:       "gpt-4o",
					Prompt:      prompt,
					Temperature: ptr(0.2),
					JSONObject:  true,
					Timeout:     25 * time.Second,
				}
			},
		},
		{
			source:    "o3-fallback",
			webSearch: true,
			request: func(prompt string) ports.LLMRequest {
				return ports.LLMRequest{
					Endpoint:        ports.EndpointResponses,
					Model:           "o3",
					Prompt:          prompt,
					WebSearch:       true,
					ReasoningEffort: "medium",
					Timeout:         45 * time.Second,
				}
			},
		},
		{
			source:    "gpt4mini-fallback",
			acceptAny: true,
			request: func(prompt string) ports.LLMRequest {
				return ports.LLMRequest{
					Endpoint:    ports.EndpointChat,
					Model:       fastModel,
					System:      "Réponds en JSON strict.",
					Prompt:      prompt,
					Temperature: ptr(0.1),
					JSONObject:  true,
					Timeout:     10 * time.Second,
				}
			},
		},
	}
}

func (s *SuggestionService) SuggestDomains(ctx context.Context, p domain.Principal, projectID string) ([]string, error) {
	project, err := loadProject(ctx, s.projects, p, projectID)
	if err != nil {
		return nil, err
	}

	cacheKey := "suggest:" + projectID + ":domains"
	var cached []string
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	client, apiKey, err := s.openAI(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Generate(ctx, apiKey, ports.LLMRequest{
		Endpoint:    ports.EndpointChat,
		Model:       s.cfg.FastModel,
		Prompt:      domainPrompt(project),
		Temperature: ptr(0.5),
		JSONObject:  true,
		Timeout:     7 * time.Second,
	})
	if err != nil {
		metrics.SuggestionsTotal.WithLabelValues("domains", "error").Inc()
		return nil, err
	}

	items := NormalizeList(resp.Text)
	if len(items) > maxDomainSuggestions {
		items = items[:maxDomainSuggestions]
	}
	metrics.SuggestionsTotal.WithLabelValues("domains", "ok").Inc()
	s.cacheSet(ctx, cacheKey, items)
	return items, nil
}

// SuggestCompetitors walks the fallback chain and keeps the first answer
// that is long enough. The last step is accepted whatever its length.
func (s *SuggestionService) SuggestCompetitors(ctx context.Context, p domain.Principal, projectID, domainName string) (*ports.CompetitorSuggestions, error) {
	domainName = strings.TrimSpace(domainName)
	if domainName == "" {
		return nil, domain.InvalidInput("domainName is required")
	}
	project, err := loadProject(ctx, s.projects, p, projectID)
	if err != nil {
		return nil, err
	}

	cacheKey := "suggest:" + projectID + ":competitors:" + strings.ToLower(domainName)
	var cached ports.CompetitorSuggestions
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	client, apiKey, err := s.openAI(ctx)
	if err != nil {
		return nil, err
	}

	city := strings.TrimSpace(project.City)
	prompt := competitorPrompt(project.Name, city, domainName)
	fallbackPrompt := competitorFallbackPrompt(project.Name, city, domainName)

	var (
		text          string
		source        = "none"
		webSearchUsed bool
	)
	for _, attempt := range s.chain {
		req := attempt.request(prompt)
		if attempt.acceptAny {
			req = attempt.request(fallbackPrompt)
		}
		resp, err := client.Generate(ctx, apiKey, req)
		if err != nil {
			s.log.Warn().Err(err).Str("source", attempt.source).Str("project_id", projectID).Msg("competitor search attempt failed")
			continue
		}
		answer := strings.TrimSpace(resp.Text)
		if utf8.RuneCountInString(answer) > usableAnswerLen || attempt.acceptAny {
			text, source, webSearchUsed = answer, attempt.source, attempt.webSearch
			break
		}
		s.log.Debug().Str("source", attempt.source).Int("length", len(answer)).Msg("competitor answer too short")
	}

	if utf8.RuneCountInString(text) < minAnswerLen {
		metrics.SuggestionsTotal.WithLabelValues("competitors", "empty").Inc()
		return nil, domain.ErrNoSuggestions
	}

	items := SanitizeCompetitors(ParseCompetitorList(text, project.Name))
	out := &ports.CompetitorSuggestions{
		Items:         items,
		Source:        source,
		WebSearchUsed: webSearchUsed,
		TotalFound:    len(items),
	}
	metrics.SuggestionsTotal.WithLabelValues("competitors", "ok").Inc()
	s.log.Info().Str("project_id", projectID).Str("source", source).Int("found", len(items)).Msg("competitor search done")

	if len(items) > 0 {
		s.cacheSet(ctx, cacheKey, out)
	}
	return out, nil
}

func (s *SuggestionService) openAI(ctx context.Context) (ports.LLMClient, string, error) {
	apiKey, err := s.keys.Resolve(ctx, domain.ProviderOpenAI)
	if err != nil {
		return nil, "", err
	}
	client, err := s.clients.Client(domain.ProviderOpenAI)
	if err != nil {
		return nil, "", err
	}
	return client, apiKey, nil
}

// cacheGet treats cache failures as misses.
func (s *SuggestionService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("suggestion cache read failed")
		return false
	}
	return found
}

func (s *SuggestionService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, s.cfg.CacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("suggestion cache write failed")
	}
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "—"
	}
	return s
}

func domainPrompt(p *domain.Project) string {
	aliases := "—"
	if len(p.Aliases) > 0 {
		aliases = strings.Join(p.Aliases, ", ")
	}
	return fmt.Sprintf(`Tu es un consultant marketing. À partir des informations ci-dessous, propose **5 à 8** domaines d'activité pertinents pour la marque.
Réponds **uniquement** avec un **tableau JSON** de chaînes (ex: ["Conseil", "Technologie"]).

Contexte:
- Marque: %s
- Description: %s
- Pays: %s
- Ville: %s
- Alias/produits: %s
- Site: %s`,
		p.Name, orDash(p.Description), orDash(p.CountryCode), orDash(p.City), aliases, orDash(p.WebsiteURL))
}

func competitorPrompt(brand, city, domainName string) string {
	return fmt.Sprintf(`Peux-tu me donner des concurrents directs de "%s" localisé à %s, dans le domaine "%s".

Contraintes OBLIGATOIRES :
Même ville : %s
Même domaine : %s
Ne pas inventer.
Réponds strictement au format JSON suivant (sans texte autour) : { "competitors": [ { "name": "Nom", "website": "https://..." } ] }`,
		brand, city, domainName, city, domainName)
}

func competitorFallbackPrompt(brand, city, domainName string) string {
	return fmt.Sprintf(`Trouve 5-10 concurrents de "%s" à %s dans le domaine "%s".
Format JSON uniquement: {"competitors": [{"name": "...", "website": "..."}]}`, brand, city, domainName)
}

var (
	listSeparators = regexp.MustCompile(`\r?\n|,|;`)
	bulletPrefix   = regexp.MustCompile(`^[-*•\s]+`)
)

// NormalizeList turns a model answer into a flat list of strings. JSON
// answers are flattened (object values in key order), anything else is
// split on newlines, commas and semicolons with bullet markers removed.
func NormalizeList(raw string) []string {
	text := report.StripCodeFences(raw)

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if list := flattenStrings(parsed); len(list) > 0 {
			return list
		}
	}

	out := []string{}
	for _, part := range listSeparators.Split(text, -1) {
		if s := strings.TrimSpace(bulletPrefix.ReplaceAllString(part, "")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func flattenStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, flattenStrings(item)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, flattenStrings(t[k])...)
		}
		return out
	}
	return nil
}

var competitorPair = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"(?:[^}]*?"website"\s*:\s*"([^"]*)")?`)

// ParseCompetitorList extracts {name, website} pairs from a model answer.
// Names of two characters or less, and names containing the brand itself,
// are dropped. When the answer is not JSON a regex scan is used instead.
func ParseCompetitorList(raw, brand string) []domain.Competitor {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	brand = strings.ToLower(strings.TrimSpace(brand))
	keep := func(name string) bool {
		if utf8.RuneCountInString(name) <= 2 {
			return false
		}
		return brand == "" || !strings.Contains(strings.ToLower(name), brand)
	}

	parsed, err := report.ParseJSON(raw)
	if err != nil {
		var out []domain.Competitor
		for _, m := range competitorPair.FindAllStringSubmatch(report.StripCodeFences(raw), -1) {
			name := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(name) > 2 {
				out = append(out, domain.Competitor{Name: name, Website: strings.TrimSpace(m[2])})
			}
		}
		return out
	}

	var entries []any
	switch t := parsed.(type) {
	case []any:
		entries = t
	case map[string]any:
		entries, _ = t["competitors"].([]any)
	}

	var out []domain.Competitor
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(fmt.Sprint(valueOr(m["name"])))
		if !keep(name) {
			continue
		}
		out = append(out, domain.Competitor{Name: name, Website: strings.TrimSpace(fmt.Sprint(valueOr(m["website"])))})
	}
	return out
}

func valueOr(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// SanitizeCompetitors keeps http(s) websites with a dotted host, removes
// case-insensitive duplicate names and caps the list.
func SanitizeCompetitors(items []domain.Competitor) []domain.Competitor {
	out := []domain.Competitor{}
	seen := make(map[string]struct{})
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		key := strings.ToLower(it.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.Competitor{Name: it.Name, Website: validWebsite(it.Website)})
		if len(out) == maxCompetitorSuggestions {
			break
		}
	}
	return out
}

func validWebsite(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if !strings.Contains(u.Hostname(), ".") {
		return ""
	}
	return raw
}

func ptr[T any](v T) *T { return &v }

