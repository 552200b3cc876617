package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/api/metrics"
	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
	"github.com/zetruc/pulse/internal/core/report"
)

const (
	defaultAnalysisModel   = "gpt-4o"
	defaultAnalysisTimeout = 60 * time.Second
	defaultLockTTL         = 2 * time.Minute
	historyLimit           = 20
	contextCompetitors     = 5

	quickModel = "gpt-4o"
	quickNA    = "N/A"
)

// AnalysisConfig selects the provider and model used for reports.
type AnalysisConfig struct {
	Provider domain.Provider
	Model    string
	Timeout  time.Duration
	LockTTL  time.Duration
}

// AnalysisService runs the prompt → LLM → extract → repair → validate →
// store pipeline and serves stored runs.
type AnalysisService struct {
	projects ports.ProjectRepository
	domains  ports.DomainRepository
	analyses ports.AnalysisRepository
	keys     ports.KeyResolver
	clients  ports.LLMClients
	lock     ports.RunLock
	cfg      AnalysisConfig
	log      zerolog.Logger
}

func NewAnalysisService(
	projects ports.ProjectRepository,
	domains ports.DomainRepository,
	analyses ports.AnalysisRepository,
	keys ports.KeyResolver,
	clients ports.LLMClients,
	lock ports.RunLock,
	cfg AnalysisConfig,
	log zerolog.Logger,
) *AnalysisService {
	if cfg.Provider == "" {
		cfg.Provider = domain.ProviderOpenAI
	}
	if cfg.Model == "" {
		cfg.Model = defaultAnalysisModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAnalysisTimeout
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	return &AnalysisService{
		projects: projects,
		domains:  domains,
		analyses: analyses,
		keys:     keys,
		clients:  clients,
		lock:     lock,
		cfg:      cfg,
		log:      log,
	}
}

// Run generates and stores a new report for a project the caller can access.
func (s *AnalysisService) Run(ctx context.Context, p domain.Principal, projectID string) (*domain.ProjectAnalysis, error) {
	project, err := loadProject(ctx, s.projects, p, projectID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, project)
}

// RunForProject is the background variant of Run used by refresh workers.
func (s *AnalysisService) RunForProject(ctx context.Context, projectID string) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	_, err = s.run(ctx, project)
	return err
}

func (s *AnalysisService) run(ctx context.Context, project *domain.Project) (*domain.ProjectAnalysis, error) {
	competitors, err := s.competitorNames(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	website := report.NormalizeWebsite(project.WebsiteURL)
	input := report.NewPromptInput(project.Name, website, project.City, competitors)
	prompt := report.BuildPrompt(input)

	release, err := s.lock.Acquire(ctx, "analysis:"+project.ID, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisRunning) {
			metrics.AnalysesTotal.WithLabelValues(string(s.cfg.Provider), "busy").Inc()
		}
		return nil, err
	}
	defer release()

	apiKey, err := s.keys.Resolve(ctx, s.cfg.Provider)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.Client(s.cfg.Provider)
	if err != nil {
		return nil, err
	}

	log := s.log.With().Str("project_id", project.ID).Str("provider", string(s.cfg.Provider)).Logger()
	log.Info().Int("competitors", len(competitors)).Msg("analysis started")

	resp, err := client.Generate(ctx, apiKey, ports.LLMRequest{
		Endpoint:    ports.EndpointResponses,
		Model:       s.cfg.Model,
		Prompt:      prompt,
		Schema:      &ports.JSONSchema{Name: report.SchemaName, Schema: report.Schema()},
		WebSearch:   true,
		Temperature: ptr(1.0),
		TopP:        ptr(1.0),
		MaxTokens:   2048,
		Store:       true,
		Timeout:     s.cfg.Timeout,
	})
	if err != nil {
		s.countResult("upstream_error")
		log.Error().Err(err).Msg("analysis provider call failed")
		if !errors.Is(err, domain.ErrUpstream) {
			err = fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		return nil, err
	}

	payload, err := decodePayload(resp)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyOutput) {
			s.countResult("empty")
		} else {
			s.countResult("malformed")
		}
		log.Warn().Err(err).Int("text_length", len(resp.Text)).Msg("analysis output unusable")
		return nil, err
	}

	rep, ok := report.Sanitize(payload)
	if !ok {
		s.countResult("malformed")
		log.Warn().Msg("analysis output does not match the report shape")
		return nil, domain.ErrMalformedOutput
	}

	analysis := &domain.ProjectAnalysis{
		ProjectID: project.ID,
		Provider:  s.cfg.Provider,
		Model:     s.cfg.Model,
		Report:    *rep,
		Raw:       payload,
		RawText:   strings.TrimSpace(resp.Text),
		Prompt:    prompt,
		Context: domain.AnalysisContext{
			CompanyName: input.CompanyName,
			City:        strings.TrimSpace(project.City),
			Website:     website,
			Competitors: firstN(competitors, contextCompetitors),
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.analyses.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}

	s.countResult("ok")
	log.Info().Str("analysis_id", analysis.ID).Msg("analysis stored")
	return analysis, nil
}

func (s *AnalysisService) countResult(result string) {
	metrics.AnalysesTotal.WithLabelValues(string(s.cfg.Provider), result).Inc()
}

// decodePayload prefers the structured value returned by the provider and
// falls back to parsing (and repairing) the text answer.
func decodePayload(resp *ports.LLMResponse) (any, error) {
	if resp.Structured != nil {
		return resp.Structured, nil
	}
	v, err := report.ParseJSON(resp.Text)
	switch {
	case errors.Is(err, report.ErrEmpty):
		return nil, domain.ErrEmptyOutput
	case err != nil:
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	case v == nil:
		return nil, domain.ErrEmptyOutput
	}
	return v, nil
}

// competitorNames collects the distinct competitor names of every domain of
// the project, in domain order.
func (s *AnalysisService) competitorNames(ctx context.Context, projectID string) ([]string, error) {
	domains, err := s.domains.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var names []string
	for _, d := range domains {
		for _, name := range d.CompetitorNames() {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *AnalysisService) Overview(ctx context.Context, p domain.Principal, projectID string) (*ports.AnalysisOverview, error) {
	if _, err := loadProject(ctx, s.projects, p, projectID); err != nil {
		return nil, err
	}
	runs, err := s.analyses.ListByProject(ctx, projectID, historyLimit)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, domain.ErrAnalysisNotFound
	}

	history := make([]ports.AnalysisHistoryItem, 0, len(runs))
	for _, run := range runs {
		history = append(history, ports.AnalysisHistoryItem{
			ID:        run.ID,
			CreatedAt: run.CreatedAt,
			Provider:  run.Provider,
			Summary:   report.Summarize(&run.Report),
		})
	}
	return &ports.AnalysisOverview{Latest: runs[0], History: history}, nil
}

func (s *AnalysisService) Get(ctx context.Context, p domain.Principal, projectID, analysisID string) (*domain.ProjectAnalysis, error) {
	if _, err := loadProject(ctx, s.projects, p, projectID); err != nil {
		return nil, err
	}
	return s.analyses.FindByID(ctx, projectID, analysisID)
}

// Quick produces a free-text report without storing it.
func (s *AnalysisService) Quick(ctx context.Context, in ports.QuickAnalysisInput) (string, error) {
	name, website := strings.TrimSpace(in.ProjectName), strings.TrimSpace(in.WebsiteURL)
	if name == "" || website == "" {
		return "", domain.InvalidInput("project name and website URL are required")
	}

	apiKey, err := s.keys.Resolve(ctx, domain.ProviderOpenAI)
	if err != nil {
		return "", err
	}
	client, err := s.clients.Client(domain.ProviderOpenAI)
	if err != nil {
		return "", err
	}

	prompt := report.BuildPrompt(report.PromptInput{
		CompanyName: name,
		Website:     website,
		Competitor1: orNA(in.Competitor1),
		Competitor2: orNA(in.Competitor2),
		City:        orNA(in.City),
	})
	resp, err := client.Generate(ctx, apiKey, ports.LLMRequest{
		Endpoint:    ports.EndpointChat,
		Model:       quickModel,
		Prompt:      prompt,
		Temperature: ptr(0.7),
		MaxTokens:   4096,
		Timeout:     s.cfg.Timeout,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", domain.ErrEmptyOutput
	}
	return text, nil
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return quickNA
	}
	return s
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	if s == nil {
		return []string{}
	}
	return s
}
