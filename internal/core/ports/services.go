package ports

import (
	"context"
	"time"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/report"
)

// Session is an issued login session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService issues and validates session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, p domain.Principal) error
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
	Me(ctx context.Context, p domain.Principal) (*domain.User, error)
}

// ListUsersInput carries raw admin listing parameters before clamping.
type ListUsersInput struct {
	Query    string
	Role     string
	Sort     string
	Order    string
	Page     int
	PageSize int
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Items    []*domain.User
	Total    int64
	Page     int
	PageSize int
	Sort     string
	Order    string
}

// CreateUserInput carries the fields of a new user.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// UpdateUserInput carries an admin patch. Nil fields are left unchanged.
type UpdateUserInput struct {
	Password *string
	Role     *string
}

// UserService is the admin user management use case.
type UserService interface {
	List(ctx context.Context, in ListUsersInput) (*UserPage, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
}

// BrandPatch is a partial project profile update. Nil fields are left
// unchanged, empty strings clear the field.
type BrandPatch struct {
	Name        *string
	CountryCode *string
	City        *string
	WebsiteURL  *string
	Description *string
	Aliases     *[]string
	LogoURL     *string
}

// ProjectDetail is a project with its domains.
type ProjectDetail struct {
	Project *domain.Project
	Domains []*domain.BusinessDomain
}

// ProjectService manages projects.
type ProjectService interface {
	List(ctx context.Context, p domain.Principal) ([]*domain.Project, error)
	Create(ctx context.Context, p domain.Principal, name string) (*domain.Project, error)
	Get(ctx context.Context, p domain.Principal, id string) (*ProjectDetail, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	UpdateBrand(ctx context.Context, p domain.Principal, id string, patch BrandPatch) (*domain.Project, error)
}

// CreateDomainInput carries the fields of a new business domain.
type CreateDomainInput struct {
	Name        string
	Notes       string
	Competitors []domain.Competitor
}

// UpdateDomainInput is a partial domain update. Nil fields are unchanged.
type UpdateDomainInput struct {
	Name        *string
	Notes       *string
	Competitors *[]domain.Competitor
}

// DomainService manages the business domains of a project.
type DomainService interface {
	List(ctx context.Context, p domain.Principal, projectID string) ([]*domain.BusinessDomain, error)
	Create(ctx context.Context, p domain.Principal, projectID string, in CreateDomainInput) (*domain.BusinessDomain, error)
	Get(ctx context.Context, p domain.Principal, projectID, domainID string) (*domain.BusinessDomain, error)
	Update(ctx context.Context, p domain.Principal, projectID, domainID string, in UpdateDomainInput) (*domain.BusinessDomain, error)
	Delete(ctx context.Context, p domain.Principal, projectID, domainID string) error
}

// CompetitorSuggestions is the result of a competitor search.
type CompetitorSuggestions struct {
	Items         []domain.Competitor `json:"items"`
	Source        string              `json:"source"`
	WebSearchUsed bool                `json:"webSearchUsed"`
	TotalFound    int                 `json:"totalFound"`
}

// SuggestionService asks the LLM for domain and competitor ideas.
type SuggestionService interface {
	SuggestDomains(ctx context.Context, p domain.Principal, projectID string) ([]string, error)
	SuggestCompetitors(ctx context.Context, p domain.Principal, projectID, domainName string) (*CompetitorSuggestions, error)
}

// AnalysisHistoryItem is one row of a project's analysis history.
type AnalysisHistoryItem struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Provider  domain.Provider `json:"provider"`
	Summary   report.Summary  `json:"summary"`
}

// AnalysisOverview is the latest report of a project and its history.
type AnalysisOverview struct {
	Latest  *domain.ProjectAnalysis
	History []AnalysisHistoryItem
}

// QuickAnalysisInput feeds the legacy free-text analysis.
type QuickAnalysisInput struct {
	ProjectName string
	WebsiteURL  string
	Competitor1 string
	Competitor2 string
	City        string
}

// AnalysisService runs and browses reputation analyses.
type AnalysisService interface {
	Run(ctx context.Context, p domain.Principal, projectID string) (*domain.ProjectAnalysis, error)
	Overview(ctx context.Context, p domain.Principal, projectID string) (*AnalysisOverview, error)
	Get(ctx context.Context, p domain.Principal, projectID, analysisID string) (*domain.ProjectAnalysis, error)
	Quick(ctx context.Context, in QuickAnalysisInput) (string, error)
}

// AnalysisRunner runs an analysis without a caller identity. It backs the
// background refresh workers.
type AnalysisRunner interface {
	RunForProject(ctx context.Context, projectID string) error
}

// RefreshQueue accepts background analysis jobs.
type RefreshQueue interface {
	// Enqueue reports false when the job could not be queued.
	Enqueue(projectID string) bool
}

// RefreshService schedules background analysis runs.
type RefreshService interface {
	// Refresh enqueues the given projects, or every project when ids is empty,
	// and returns the number of queued jobs.
	Refresh(ctx context.Context, ids []string) (int, error)
}

// LLMKeyService manages provider keys.
type LLMKeyService interface {
	List(ctx context.Context) ([]*domain.LLMKey, error)
	Save(ctx context.Context, actor domain.Principal, provider domain.Provider, apiKey string) (*domain.LLMKey, error)
	Delete(ctx context.Context, provider domain.Provider) error
	KeyResolver
}

// AnalysisDigest is a recent analysis in admin stats.
type AnalysisDigest struct {
	ID          string         `json:"id"`
	ProjectName string         `json:"projectName"`
	CreatedAt   time.Time      `json:"createdAt"`
	Summary     report.Summary `json:"summary"`
}

// StaleKey is a provider key that was not rotated recently.
type StaleKey struct {
	Provider  domain.Provider `json:"provider"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UserDigest is a recently created user in admin stats.
type UserDigest struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlatformStats is the admin dashboard payload.
type PlatformStats struct {
	Totals struct {
		Users    int64 `json:"users"`
		Projects int64 `json:"projects"`
		Domains  int64 `json:"domains"`
		Analyses int64 `json:"analyses"`
	} `json:"totals"`
	Analyses struct {
		Last30Days int64            `json:"last30Days"`
		Latest     []AnalysisDigest `json:"latest"`
	} `json:"analyses"`
	Domains struct {
		WithoutCompetitors int              `json:"withoutCompetitors"`
		Alerts             []DomainCoverage `json:"alerts"`
	} `json:"domains"`
	LLM struct {
		Configured int        `json:"configured"`
		Stale      []StaleKey `json:"stale"`
	} `json:"llm"`
	Users struct {
		NewLast30Days int64        `json:"newLast30Days"`
		Latest        []UserDigest `json:"latest"`
	} `json:"users"`
}

// StatsService computes the admin dashboard.
type StatsService interface {
	Stats(ctx context.Context) (*PlatformStats, error)
}
