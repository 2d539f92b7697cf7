// Package pool provides a bounded, lazily-grown worker pool with a central
// scheduler that routes submitted jobs to idle workers.
//
// A Job is an ordered sequence of tasks executed by exactly one worker;
// tasks within a job run sequentially, in the order they were added. Jobs
// submitted to the pool run concurrently across at most the configured
// maximum number of workers. Workers are created lazily: the scheduler only
// spawns a new worker when a job arrives and no existing worker is idle.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//		return err
//	}
//	defer p.Stop()
//
//	job := pool.NewJob()
//	job.AddTask(func(ctx context.Context) error {
//		return doWork(ctx)
//	})
//	job.AddTask(func(ctx context.Context) error {
//		return doFollowup(ctx) // runs after doWork, on the same worker
//	})
//
//	if err := p.AddJob(job); err != nil {
//		return err
//	}
//
//	if err := <-job.Done(); err != nil {
//		// first task error; remaining tasks were skipped
//	}
//
// # Failure Semantics
//
// A task returning an error aborts the remaining tasks of its job. There is
// no automatic retry. The error is logged and delivered on the job's Done
// channel; retrying is always an explicit decision of the caller.
//
// Stop is an unconditional hard cancellation: the scheduler and every worker
// are cancelled immediately with no draining and no grace period. Tasks
// receive the cancellation through their context.
package pool
