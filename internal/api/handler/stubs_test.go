package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zetruc/pulse/internal/api/middleware"
	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

var (
	owner = domain.Principal{UserID: "u1", Email: "owner@example.com", Role: domain.RoleUser, TokenID: "jti-1"}
	admin = domain.Principal{UserID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin, TokenID: "jti-2"}
)

// request describes a handler invocation. A nil principal leaves the context
// unauthenticated.
type request struct {
	method string
	target string
	body   string
	who    *domain.Principal
	params map[string]string
}

func newContext(t *testing.T, r request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if r.body != "" {
		req = httptest.NewRequest(r.method, r.target, strings.NewReader(r.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(r.method, r.target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(r.params) > 0 {
		names := make([]string, 0, len(r.params))
		values := make([]string, 0, len(r.params))
		for k, v := range r.params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if r.who != nil {
		middleware.SetPrincipal(c, *r.who)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// statusOf returns the HTTP status carried by an echo.HTTPError, or 0.
func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

type stubAuthService struct {
	login  func(email, password string) (*ports.Session, error)
	logout func(p domain.Principal) error
	me     func(p domain.Principal) (*domain.User, error)
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*ports.Session, error) {
	return s.login(email, password)
}

func (s *stubAuthService) Logout(_ context.Context, p domain.Principal) error {
	return s.logout(p)
}

func (s *stubAuthService) Authenticate(context.Context, string) (domain.Principal, error) {
	return domain.Principal{}, domain.ErrInvalidCredentials
}

func (s *stubAuthService) Me(_ context.Context, p domain.Principal) (*domain.User, error) {
	return s.me(p)
}

type stubProjectService struct {
	list   func(p domain.Principal) ([]*domain.Project, error)
	create func(p domain.Principal, name string) (*domain.Project, error)
	get    func(p domain.Principal, id string) (*ports.ProjectDetail, error)
	delete func(p domain.Principal, id string) error
	brand  func(p domain.Principal, id string, patch ports.BrandPatch) (*domain.Project, error)
}

func (s *stubProjectService) List(_ context.Context, p domain.Principal) ([]*domain.Project, error) {
	return s.list(p)
}

func (s *stubProjectService) Create(_ context.Context, p domain.Principal, name string) (*domain.Project, error) {
	return s.create(p, name)
}

func (s *stubProjectService) Get(_ context.Context, p domain.Principal, id string) (*ports.ProjectDetail, error) {
	return s.get(p, id)
}

func (s *stubProjectService) Delete(_ context.Context, p domain.Principal, id string) error {
	return s.delete(p, id)
}

func (s *stubProjectService) UpdateBrand(_ context.Context, p domain.Principal, id string, patch ports.BrandPatch) (*domain.Project, error) {
	return s.brand(p, id, patch)
}

type stubDomainService struct {
	list   func(projectID string) ([]*domain.BusinessDomain, error)
	create func(projectID string, in ports.CreateDomainInput) (*domain.BusinessDomain, error)
	get    func(projectID, domainID string) (*domain.BusinessDomain, error)
	update func(projectID, domainID string, in ports.UpdateDomainInput) (*domain.BusinessDomain, error)
	delete func(projectID, domainID string) error
}

func (s *stubDomainService) List(_ context.Context, _ domain.Principal, projectID string) ([]*domain.BusinessDomain, error) {
	return s.list(projectID)
}

func (s *stubDomainService) Create(_ context.Context, _ domain.Principal, projectID string, in ports.CreateDomainInput) (*domain.BusinessDomain, error) {
	return s.create(projectID, in)
}

func (s *stubDomainService) Get(_ context.Context, _ domain.Principal, projectID, domainID string) (*domain.BusinessDomain, error) {
	return s.get(projectID, domainID)
}

func (s *stubDomainService) Update(_ context.Context, _ domain.Principal, projectID, domainID string, in ports.UpdateDomainInput) (*domain.BusinessDomain, error) {
	return s.update(projectID, domainID, in)
}

func (s *stubDomainService) Delete(_ context.Context, _ domain.Principal, projectID, domainID string) error {
	return s.delete(projectID, domainID)
}

type stubSuggestionService struct {
	domains     func(projectID string) ([]string, error)
	competitors func(projectID, domainName string) (*ports.CompetitorSuggestions, error)
}

func (s *stubSuggestionService) SuggestDomains(_ context.Context, _ domain.Principal, projectID string) ([]string, error) {
	return s.domains(projectID)
}

func (s *stubSuggestionService) SuggestCompetitors(_ context.Context, _ domain.Principal, projectID, domainName string) (*ports.CompetitorSuggestions, error) {
	return s.competitors(projectID, domainName)
}

type stubAnalysisService struct {
	run      func(projectID string) (*domain.ProjectAnalysis, error)
	overview func(projectID string) (*ports.AnalysisOverview, error)
	get      func(projectID, analysisID string) (*domain.ProjectAnalysis, error)
	quick    func(in ports.QuickAnalysisInput) (string, error)
}

func (s *stubAnalysisService) Run(_ context.Context, _ domain.Principal, projectID string) (*domain.ProjectAnalysis, error) {
	return s.run(projectID)
}

func (s *stubAnalysisService) Overview(_ context.Context, _ domain.Principal, projectID string) (*ports.AnalysisOverview, error) {
	return s.overview(projectID)
}

func (s *stubAnalysisService) Get(_ context.Context, _ domain.Principal, projectID, analysisID string) (*domain.ProjectAnalysis, error) {
	return s.get(projectID, analysisID)
}

func (s *stubAnalysisService) Quick(_ context.Context, in ports.QuickAnalysisInput) (string, error) {
	return s.quick(in)
}

type stubUserService struct {
	list   func(in ports.ListUsersInput) (*ports.UserPage, error)
	create func(in ports.CreateUserInput) (*domain.User, error)
	update func(id string, in ports.UpdateUserInput) (*domain.User, error)
	delete func(actor domain.Principal, id string) error
}

func (s *stubUserService) List(_ context.Context, in ports.ListUsersInput) (*ports.UserPage, error) {
	return s.list(in)
}

func (s *stubUserService) Create(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.create(in)
}

func (s *stubUserService) Update(_ context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.update(id, in)
}

func (s *stubUserService) Delete(_ context.Context, actor domain.Principal, id string) error {
	return s.delete(actor, id)
}

type stubKeyService struct {
	list   func() ([]*domain.LLMKey, error)
	save   func(actor domain.Principal, provider domain.Provider, apiKey string) (*domain.LLMKey, error)
	delete func(provider domain.Provider) error
}

func (s *stubKeyService) List(context.Context) ([]*domain.LLMKey, error) {
	return s.list()
}

func (s *stubKeyService) Save(_ context.Context, actor domain.Principal, provider domain.Provider, apiKey string) (*domain.LLMKey, error) {
	return s.save(actor, provider, apiKey)
}

func (s *stubKeyService) Delete(_ context.Context, provider domain.Provider) error {
	return s.delete(provider)
}

func (s *stubKeyService) Resolve(context.Context, domain.Provider) (string, error) {
	return "", domain.ErrLLMKeyMissing
}

type stubStatsService struct {
	stats *ports.PlatformStats
}

func (s *stubStatsService) Stats(context.Context) (*ports.PlatformStats, error) {
	return s.stats, nil
}

type stubRefreshService struct {
	got []string
}

func (s *stubRefreshService) Refresh(_ context.Context, ids []string) (int, error) {
	s.got = ids
	if len(ids) == 0 {
		return 3, nil
	}
	return len(ids), nil
}
