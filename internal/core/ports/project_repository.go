package ports

import (
	"context"
	"time"

	"github.com/zetruc/pulse/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// ListByOwner returns the owner's projects, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Project, error)
	ListIDs(ctx context.Context) ([]string, error)
	// Names maps project ids to names. Unknown ids are omitted.
	Names(ctx context.Context, ids []string) (map[string]string, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// DomainCoverage is the per-domain competitor count used by admin stats.
type DomainCoverage struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProjectID       string `json:"projectId"`
	ProjectName     string `json:"projectName"`
	CompetitorCount int    `json:"competitorCount"`
}

// DomainRepository defines persistence operations for business domains.
// Lookups are always scoped to a project.
type DomainRepository interface {
	Create(ctx context.Context, d *domain.BusinessDomain) error
	FindByID(ctx context.Context, projectID, domainID string) (*domain.BusinessDomain, error)
	// ListByProject returns the project's domains, newest first.
	ListByProject(ctx context.Context, projectID string) ([]*domain.BusinessDomain, error)
	Update(ctx context.Context, d *domain.BusinessDomain) error
	Delete(ctx context.Context, projectID, domainID string) error
	DeleteByProject(ctx context.Context, projectID string) error
	Count(ctx context.Context) (int64, error)
	Coverage(ctx context.Context) ([]DomainCoverage, error)
}

// AnalysisRepository stores reputation analysis runs.
type AnalysisRepository interface {
	Create(ctx context.Context, a *domain.ProjectAnalysis) error
	FindByID(ctx context.Context, projectID, analysisID string) (*domain.ProjectAnalysis, error)
	// ListByProject returns runs newest first. limit <= 0 means no limit.
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.ProjectAnalysis, error)
	DeleteByProject(ctx context.Context, projectID string) error
	Count(ctx context.Context, since time.Time) (int64, error)
	Latest(ctx context.Context, limit int) ([]*domain.ProjectAnalysis, error)
}

// LLMKeyRepository stores encrypted provider keys, one per provider.
type LLMKeyRepository interface {
	Upsert(ctx context.Context, key *domain.LLMKey) error
	Find(ctx context.Context, provider domain.Provider) (*domain.LLMKey, error)
	// List returns every stored key sorted by provider.
	List(ctx context.Context) ([]*domain.LLMKey, error)
	Delete(ctx context.Context, provider domain.Provider) error
}
