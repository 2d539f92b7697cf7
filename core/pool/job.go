package pool

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Task is an opaque unit of asynchronous work. The pool never inspects task
// content; it only runs the task to completion and records success or
// failure. The context is cancelled when the pool is stopped.
type Task func(ctx context.Context) error

// Job is an ordered sequence of tasks submitted to the pool as one unit.
// Tasks run sequentially on a single worker, in the order they were added.
// A job is consumed entirely by exactly one worker.
//
// A Job must not be modified after it has been submitted, and must not be
// submitted more than once.
type Job struct {
	id    uuid.UUID
	tasks []Task
	done  chan error
	once  sync.Once
}

// NewJob creates an empty job.
func NewJob() *Job {
	return &Job{
		id:   uuid.New(),
		done: make(chan error, 1),
	}
}

// ID returns the job's unique identifier.
func (j *Job) ID() uuid.UUID {
	return j.id
}

// AddTask appends a task to the job. Nil tasks are ignored.
func (j *Job) AddTask(task Task) {
	if task == nil {
		return
	}
	j.tasks = append(j.tasks, task)
}

// Done returns a channel that delivers the job's outcome exactly once: the
// first task error, or nil when every task completed. The channel is closed
// afterwards.
func (j *Job) Done() <-chan error {
	return j.done
}

// finish records the job outcome. Safe to call multiple times; only the
// first call wins.
func (j *Job) finish(err error) {
	j.once.Do(func() {
		j.done <- err
		close(j.done)
	})
}
