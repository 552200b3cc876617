package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
	"github.com/zetruc/pulse/internal/core/report"
)

const (
	recentWindow       = 30 * 24 * time.Hour
	staleKeyWindow     = 60 * 24 * time.Hour
	latestLimit        = 5
	coverageThreshold  = 3
	coverageAlertLimit = 5
)

// StatsService computes the admin dashboard.
type StatsService struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
	domains  ports.DomainRepository
	analyses ports.AnalysisRepository
	keys     ports.LLMKeyRepository
	now      func() time.Time
}

func NewStatsService(
	users ports.UserRepository,
	projects ports.ProjectRepository,
	domains ports.DomainRepository,
	analyses ports.AnalysisRepository,
	keys ports.LLMKeyRepository,
) *StatsService {
	return &StatsService{
		users:    users,
		projects: projects,
		domains:  domains,
		analyses: analyses,
		keys:     keys,
		now:      time.Now,
	}
}

// Stats runs the independent queries concurrently and assembles the result.
func (s *StatsService) Stats(ctx context.Context) (*ports.PlatformStats, error) {
	now := s.now().UTC()
	since := now.Add(-recentWindow)

	var (
		out         ports.PlatformStats
		latestRuns  []*domain.ProjectAnalysis
		coverage    []ports.DomainCoverage
		keys        []*domain.LLMKey
		latestUsers []*domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Totals.Users, err = s.users.Count(gctx, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		out.Totals.Projects, err = s.projects.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Totals.Domains, err = s.domains.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Totals.Analyses, err = s.analyses.Count(gctx, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		out.Analyses.Last30Days, err = s.analyses.Count(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		latestRuns, err = s.analyses.Latest(gctx, latestLimit)
		return err
	})
	g.Go(func() (err error) {
		coverage, err = s.domains.Coverage(gctx)
		return err
	})
	g.Go(func() (err error) {
		keys, err = s.keys.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Users.NewLast30Days, err = s.users.Count(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		latestUsers, err = s.users.Latest(gctx, latestLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	digests, err := s.digests(ctx, latestRuns)
	if err != nil {
		return nil, err
	}
	out.Analyses.Latest = digests

	out.Domains.Alerts = []ports.DomainCoverage{}
	for _, c := range coverage {
		if c.CompetitorCount == 0 {
			out.Domains.WithoutCompetitors++
		}
		if c.CompetitorCount < coverageThreshold && len(out.Domains.Alerts) < coverageAlertLimit {
			out.Domains.Alerts = append(out.Domains.Alerts, c)
		}
	}

	staleBefore := now.Add(-staleKeyWindow)
	out.LLM.Configured = len(keys)
	out.LLM.Stale = []ports.StaleKey{}
	for _, k := range keys {
		if k.UpdatedAt.Before(staleBefore) {
			out.LLM.Stale = append(out.LLM.Stale, ports.StaleKey{Provider: k.Provider, UpdatedAt: k.UpdatedAt})
		}
	}

	out.Users.Latest = make([]ports.UserDigest, 0, len(latestUsers))
	for _, u := range latestUsers {
		out.Users.Latest = append(out.Users.Latest, ports.UserDigest{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
	}
	return &out, nil
}

func (s *StatsService) digests(ctx context.Context, runs []*domain.ProjectAnalysis) ([]ports.AnalysisDigest, error) {
	out := make([]ports.AnalysisDigest, 0, len(runs))
	if len(runs) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(runs))
	for _, r := range runs {
		ids = append(ids, r.ProjectID)
	}
	names, err := s.projects.Names(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range runs {
		out = append(out, ports.AnalysisDigest{
			ID:          r.ID,
			ProjectName: names[r.ProjectID],
			CreatedAt:   r.CreatedAt,
			Summary:     report.Summarize(&r.Report),
		})
	}
	return out, nil
}
