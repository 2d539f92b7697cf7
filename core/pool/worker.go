package pool

import (
	"fmt"
	"log/slog"
)

// worker owns a private job inbox and executes jobs to completion. It
// reports idleness to the scheduler through the shared idle channel and only
// ever runs on its own goroutine.
type worker struct {
	id    int
	inbox chan *Job
}

// run is the worker loop: announce idle, wait for a job, execute every task
// in order, then drain any already-queued next job without reporting idle in
// between. The loop exits only on pool cancellation.
func (p *Pool) runWorker(w *worker) {
	defer p.active.Add(-1)

	p.logger.Debug("worker started", slog.Int("worker_id", w.id))

	// Initial idle notification registers the worker with the scheduler.
	select {
	case p.idle <- w.id:
	case <-p.ctx.Done():
		return
	}

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("worker stopped", slog.Int("worker_id", w.id))
			return
		case job := <-w.inbox:
			for job != nil {
				p.runJob(w, job)

				// Drain a queued follow-up job before going idle again.
				select {
				case next := <-w.inbox:
					job = next
				default:
					job = nil
					select {
					case p.idle <- w.id:
					case <-p.ctx.Done():
						return
					}
				}
			}
		}
	}
}

// runJob executes every task of the job in submission order. The first task
// failure aborts the remaining tasks; the error is logged and delivered on
// the job's Done channel. There is no retry.
func (p *Pool) runJob(w *worker, job *Job) {
	for i, task := range job.tasks {
		if err := p.ctx.Err(); err != nil {
			job.finish(err)
			return
		}

		if err := p.runTask(task); err != nil {
			p.tasksFailed.Add(1)
			p.logger.Error("task failed, aborting remaining tasks in job",
				slog.Int("worker_id", w.id),
				slog.String("job_id", job.id.String()),
				slog.Int("task_index", i),
				slog.Int("tasks_remaining", len(job.tasks)-i-1),
				slog.String("error", err.Error()))
			job.finish(err)
			return
		}
	}

	p.jobsCompleted.Add(1)
	job.finish(nil)
}

// runTask runs a single task, converting a panic into a task failure so one
// bad task cannot take down the worker.
func (p *Pool) runTask(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pool: panic in task: %v", r)
		}
	}()

	return task(p.ctx)
}
