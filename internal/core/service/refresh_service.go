package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/core/ports"
)

// RefreshService schedules background analysis runs on the refresh queue.
type RefreshService struct {
	projects ports.ProjectRepository
	queue    ports.RefreshQueue
	log      zerolog.Logger
}

func NewRefreshService(projects ports.ProjectRepository, queue ports.RefreshQueue, log zerolog.Logger) *RefreshService {
	return &RefreshService{projects: projects, queue: queue, log: log}
}

func (s *RefreshService) Refresh(ctx context.Context, ids []string) (int, error) {
	targets := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		all, err := s.projects.ListIDs(ctx)
		if err != nil {
			return 0, err
		}
		targets = all
	}

	queued := 0
	for _, id := range targets {
		if s.queue.Enqueue(id) {
			queued++
			continue
		}
		s.log.Warn().Str("project_id", id).Msg("refresh queue full, job dropped")
	}

	s.log.Info().Int("requested", len(targets)).Int("queued", queued).Msg("analysis refresh scheduled")
	return queued, nil
}
