package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

// DomainService manages the business domains of a project.
type DomainService struct {
	projects ports.ProjectRepository
	domains  ports.DomainRepository
	log      zerolog.Logger
}

func NewDomainService(projects ports.ProjectRepository, domains ports.DomainRepository, log zerolog.Logger) *DomainService {
	return &DomainService{projects: projects, domains: domains, log: log}
}

func (s *DomainService) List(ctx context.Context, p domain.Principal, projectID string) ([]*domain.BusinessDomain, error) {
	if _, err := loadProject(ctx, s.projects, p, projectID); err != nil {
		return nil, err
	}
	items, err := s.domains.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.BusinessDomain{}
	}
	return items, nil
}

func (s *DomainService) Create(ctx context.Context, p domain.Principal, projectID string, in ports.CreateDomainInput) (*domain.BusinessDomain, error) {
	if _, err := loadProject(ctx, s.projects, p, projectID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.InvalidInput("domain name is required")
	}

	now := time.Now().UTC()
	d := &domain.BusinessDomain{
		ProjectID:   projectID,
		Name:        name,
		Notes:       strings.TrimSpace(in.Notes),
		Competitors: domain.CleanCompetitors(in.Competitors),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.domains.Create(ctx, d); err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", projectID).Str("domain_id", d.ID).Msg("domain created")
	return d, nil
}

func (s *DomainService) Get(ctx context.Context, p domain.Principal, projectID, domainID string) (*domain.BusinessDomain, error) {
	_, d, err := s.load(ctx, p, projectID, domainID)
	return d, err
}

func (s *DomainService) Update(ctx context.Context, p domain.Principal, projectID, domainID string, in ports.UpdateDomainInput) (*domain.BusinessDomain, error) {
	_, d, err := s.load(ctx, p, projectID, domainID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.InvalidInput("domain name cannot be empty")
		}
		d.Name = name
	}
	if in.Notes != nil {
		d.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Competitors != nil {
		d.Competitors = domain.CleanCompetitors(*in.Competitors)
	}
	d.UpdatedAt = time.Now().UTC()

	if err := s.domains.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DomainService) Delete(ctx context.Context, p domain.Principal, projectID, domainID string) error {
	if _, _, err := s.load(ctx, p, projectID, domainID); err != nil {
		return err
	}
	return s.domains.Delete(ctx, projectID, domainID)
}

// load resolves the domain inside its project. A domain that does not
// belong to the project is not found, whoever asks; access is checked after.
func (s *DomainService) load(ctx context.Context, p domain.Principal, projectID, domainID string) (*domain.Project, *domain.BusinessDomain, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	d, err := s.domains.FindByID(ctx, projectID, domainID)
	if err != nil {
		return nil, nil, err
	}
	if !project.CanAccess(p) {
		return nil, nil, domain.ErrForbidden
	}
	return project, d, nil
}
