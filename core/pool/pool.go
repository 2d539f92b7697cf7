package pool

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Pool executes submitted jobs concurrently across a bounded, lazily-grown
// set of workers. A single scheduler goroutine routes each job to an idle
// worker, growing the pool only when no worker is idle and the limit has not
// been reached.
type Pool struct {
	maxWorkers int
	logger     *slog.Logger

	jobs chan *Job
	idle chan int

	// mu guards the worker registry and next-id counter, for bookkeeping
	// only. It is never held while a task runs.
	mu      sync.Mutex
	workers map[int]*worker
	nextID  int

	ctx    context.Context
	cancel context.CancelFunc
	stop   sync.Once

	active        atomic.Int32
	jobsSubmitted atomic.Int64
	jobsCompleted atomic.Int64
	tasksFailed   atomic.Int64
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Workers       int   // workers created so far
	ActiveWorkers int32 // worker goroutines still running
	JobsSubmitted int64 // jobs accepted by AddJob
	JobsCompleted int64 // jobs whose tasks all succeeded
	TasksFailed   int64 // tasks that returned an error or panicked
	IsRunning     bool  // false after Stop
}

// New creates a pool with the given worker limit and starts its scheduler.
// Workers are created lazily as jobs arrive.
func New(maxWorkers int, opts ...Option) (*Pool, error) {
	if maxWorkers < 1 {
		return nil, ErrInvalidMaxWorkers
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		maxWorkers: maxWorkers,
		logger:     options.logger,
		jobs:       make(chan *Job, options.queueCapacity),
		idle:       make(chan int, maxWorkers),
		workers:    make(map[int]*worker),
		ctx:        ctx,
		cancel:     cancel,
	}

	go p.schedule()

	p.logger.Debug("pool started",
		slog.Int("max_workers", maxWorkers),
		slog.Int("queue_capacity", options.queueCapacity))

	return p, nil
}

// NewFromConfig creates a Pool from configuration. Additional options
// override config values.
func NewFromConfig(cfg Config, opts ...Option) (*Pool, error) {
	allOpts := append([]Option{
		WithQueueCapacity(cfg.QueueCapacity),
	}, opts...)

	return New(cfg.MaxWorkers, allOpts...)
}

// AddJob hands a job to the scheduler. It does not block waiting for a
// worker: the job is queued and dispatched as soon as a worker is idle.
// AddJob fails explicitly when the pool is stopped or the submission queue
// is full; in both cases the job is not enqueued and the caller keeps it.
func (p *Pool) AddJob(job *Job) error {
	if job == nil {
		return ErrNilJob
	}
	if p.ctx.Err() != nil {
		return ErrPoolStopped
	}

	select {
	case p.jobs <- job:
		p.jobsSubmitted.Add(1)
		return nil
	case <-p.ctx.Done():
		return ErrPoolStopped
	default:
		return ErrQueueFull
	}
}

// Stop cancels the scheduler and every worker unconditionally: no draining,
// no grace period, no timeout. Pending and running jobs observe the
// cancellation through their task context. Stop is idempotent.
func (p *Pool) Stop() {
	p.stop.Do(func() {
		p.cancel()

		// Workers stuck in tasks that ignore cancellation cannot be joined;
		// they are logged and abandoned.
		if n := p.active.Load(); n > 0 {
			p.logger.Warn("pool stopped with workers still running",
				slog.Int("active_workers", int(n)))
		}
		p.logger.Debug("pool stopped")
	})
}

// Stats returns current pool statistics.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	created := len(p.workers)
	p.mu.Unlock()

	return Stats{
		Workers:       created,
		ActiveWorkers: p.active.Load(),
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		TasksFailed:   p.tasksFailed.Load(),
		IsRunning:     p.ctx.Err() == nil,
	}
}

// schedule is the scheduler loop. It owns job routing exclusively: per
// incoming job it tries a non-blocking idle check, grows the pool if
// possible, and otherwise blocks until some worker reports idle.
func (p *Pool) schedule() {
	p.logger.Debug("scheduler started")

	for {
		select {
		case <-p.ctx.Done():
			p.failQueued()
			p.logger.Debug("scheduler stopped")
			return
		case job := <-p.jobs:
			p.dispatch(job)
		}
	}
}

// failQueued delivers ErrPoolStopped to every job still sitting in the
// submission queue, so no caller blocks forever on a Done channel after Stop.
func (p *Pool) failQueued() {
	for {
		select {
		case job := <-p.jobs:
			job.finish(ErrPoolStopped)
		default:
			return
		}
	}
}

// dispatch routes one job to an idle worker, creating a new worker when none
// is idle and the pool is below its limit.
func (p *Pool) dispatch(job *Job) {
	select {
	case id := <-p.idle:
		p.handOff(id, job)
		return
	default:
	}

	p.mu.Lock()
	if len(p.workers) < p.maxWorkers {
		p.spawnWorkerLocked()
	}
	p.mu.Unlock()

	// Either the new worker or a busy one finishing up reports idle next.
	select {
	case id := <-p.idle:
		p.handOff(id, job)
	case <-p.ctx.Done():
		job.finish(ErrPoolStopped)
	}
}

// spawnWorkerLocked creates and registers a new worker. Caller must hold mu.
func (p *Pool) spawnWorkerLocked() {
	w := &worker{
		id:    p.nextID,
		inbox: make(chan *Job, 1),
	}
	p.nextID++
	p.workers[w.id] = w
	p.active.Add(1)

	go p.runWorker(w)

	p.logger.Debug("worker created",
		slog.Int("worker_id", w.id),
		slog.Int("workers", len(p.workers)),
		slog.Int("max_workers", p.maxWorkers))
}

// handOff places the job in the idle worker's private inbox.
func (p *Pool) handOff(id int, job *Job) {
	p.mu.Lock()
	w, ok := p.workers[id]
	p.mu.Unlock()

	if !ok {
		// A worker id with no registry entry means the registry and idle
		// channel disagree; the job would be lost silently otherwise.
		p.logger.Error("unknown idle worker, dropping job",
			slog.Int("worker_id", id),
			slog.String("job_id", job.id.String()))
		job.finish(ErrPoolStopped)
		return
	}

	select {
	case w.inbox <- job:
	case <-p.ctx.Done():
		job.finish(ErrPoolStopped)
	}
}
