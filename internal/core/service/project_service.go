package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

const minProjectNameLen = 2

// ProjectService manages projects and their cascaded children.
type ProjectService struct {
	projects ports.ProjectRepository
	domains  ports.DomainRepository
	analyses ports.AnalysisRepository
	log      zerolog.Logger
}

func NewProjectService(projects ports.ProjectRepository, domains ports.DomainRepository, analyses ports.AnalysisRepository, log zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, domains: domains, analyses: analyses, log: log}
}

func (s *ProjectService) List(ctx context.Context, p domain.Principal) ([]*domain.Project, error) {
	items, err := s.projects.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Project{}
	}
	return items, nil
}

func (s *ProjectService) Create(ctx context.Context, p domain.Principal, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minProjectNameLen {
		return nil, domain.InvalidInput("project name must be at least 2 characters")
	}

	now := time.Now().UTC()
	project := &domain.Project{
		OwnerID:   p.UserID,
		Name:      name,
		Aliases:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", project.ID).Str("owner_id", p.UserID).Msg("project created")
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, p domain.Principal, id string) (*ports.ProjectDetail, error) {
	project, err := loadProject(ctx, s.projects, p, id)
	if err != nil {
		return nil, err
	}
	domains, err := s.domains.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if domains == nil {
		domains = []*domain.BusinessDomain{}
	}
	return &ports.ProjectDetail{Project: project, Domains: domains}, nil
}

// Delete removes an owned project with its domains and analyses. Projects
// that do not belong to the caller are reported as not found.
func (s *ProjectService) Delete(ctx context.Context, p domain.Principal, id string) error {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project.OwnerID != p.UserID {
		return domain.ErrProjectNotFound
	}

	if err := s.domains.DeleteByProject(ctx, id); err != nil {
		return fmt.Errorf("delete project domains: %w", err)
	}
	if err := s.analyses.DeleteByProject(ctx, id); err != nil {
		return fmt.Errorf("delete project analyses: %w", err)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

func (s *ProjectService) UpdateBrand(ctx context.Context, p domain.Principal, id string, patch ports.BrandPatch) (*domain.Project, error) {
	project, err := loadProject(ctx, s.projects, p, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if utf8.RuneCountInString(name) < minProjectNameLen {
			return nil, domain.InvalidInput("project name must be at least 2 characters")
		}
		project.Name = name
	}
	setTrimmed(&project.CountryCode, patch.CountryCode)
	setTrimmed(&project.City, patch.City)
	setTrimmed(&project.WebsiteURL, patch.WebsiteURL)
	setTrimmed(&project.Description, patch.Description)
	setTrimmed(&project.LogoURL, patch.LogoURL)
	if patch.Aliases != nil {
		project.Aliases = *patch.Aliases
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// loadProject fetches a project and checks that p may access it.
func loadProject(ctx context.Context, repo ports.ProjectRepository, p domain.Principal, id string) (*domain.Project, error) {
	project, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	if !project.CanAccess(p) {
		return nil, domain.ErrForbidden
	}
	return project, nil
}
