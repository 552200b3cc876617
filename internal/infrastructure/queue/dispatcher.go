package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/api/metrics"
	"github.com/zetruc/pulse/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes analysis refresh jobs to a fixed set of workers using
// consistent hashing on the project id, so one project is never analysed by
// two workers at once.
type Dispatcher struct {
	workers []chan string
	runner  ports.AnalysisRunner
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, runner ports.AnalysisRunner, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		runner:  runner,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

var _ ports.RefreshQueue = (*Dispatcher)(nil)

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands projectID to its worker. It never blocks: a full shard
// drops the job and returns false.
func (d *Dispatcher) Enqueue(projectID string) bool {
	idx := d.shardIndex(projectID)
	select {
	case d.workers[idx] <- projectID:
		d.refreshDepth(idx)
		return true
	default:
		return false
	}
}

// shardIndex maps a project id deterministically to a worker index.
func (d *Dispatcher) shardIndex(projectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) refreshDepth(idx int) {
	metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case projectID, ok := <-ch:
			if !ok {
				return
			}
			d.refreshDepth(id)
			if err := d.runner.RunForProject(ctx, projectID); err != nil {
				d.log.Error().Err(err).
					Str("project_id", projectID).
					Int("worker_id", id).
					Msg("analysis refresh failed")
				continue
			}
			d.log.Info().Str("project_id", projectID).Int("worker_id", id).Msg("analysis refreshed")
		}
	}
}
