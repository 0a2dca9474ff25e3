package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/notesapp/notes-api/internal/core/ports"
	"github.com/notesapp/notes-api/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher runs password rehash jobs on a fixed set of workers. Jobs are
// sharded on the user id, so two jobs for the same user never run
// concurrently.
type Dispatcher struct {
	workers []chan ports.RehashJob
	service ports.RehashService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.RehashService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.RehashJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RehashJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// jobs still buffered at that point are discarded.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker started by Start has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands job to the worker owning its user. It never blocks: when
// that worker's buffer is full the job is dropped and false is returned.
func (d *Dispatcher) Enqueue(job ports.RehashJob) bool {
	idx := d.shardIndex(job)
	depth := metrics.RehashQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- job:
		return true
	default:
		depth.Dec()
		return false
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(job ports.RehashJob) int {
	h := fnv.New32a()
	_, _ = h.Write(job.UserID[:])
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RehashJob) {
	defer d.wg.Done()

	depth := metrics.RehashQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			d.discard(id, ch, depth)
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.service.Rehash(ctx, job); err != nil {
				d.log.Error().Err(err).
					Str("user_id", job.UserID.String()).
					Int("worker_id", id).
					Msg("password rehash failed")
			}
		}
	}
}

// discard empties a stopped worker's buffer so the depth gauge returns to zero.
func (d *Dispatcher) discard(id int, ch <-chan ports.RehashJob, depth prometheus.Gauge) {
	dropped := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			metrics.RehashJobsTotal.WithLabelValues("dropped").Inc()
			dropped++
		default:
			if dropped > 0 {
				d.log.Warn().Int("worker_id", id).Int("dropped", dropped).Msg("rehash jobs discarded at shutdown")
			}
			return
		}
	}
}
