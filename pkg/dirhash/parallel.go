package dirhash

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrymomot/synckit/core/pool"
)

// HashFiles hashes each path on the pool, one job per file, and returns a map
// from path to hex-encoded hash. It blocks until every job finished or ctx is
// done. Failed files are absent from the map; their errors are joined in the
// returned error.
func HashFiles(ctx context.Context, p *pool.Pool, paths ...string) (map[string]string, error) {
	var (
		mu     sync.Mutex
		hashes = make(map[string]string, len(paths))
	)

	jobs := make([]*pool.Job, 0, len(paths))
	var errs []error
	for _, path := range paths {
		job := pool.NewJob()
		job.AddTask(func(ctx context.Context) error {
			hash, err := HashFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			hashes[path] = hash
			mu.Unlock()
			return nil
		})

		if err := p.AddJob(job); err != nil {
			errs = append(errs, err)
			continue
		}
		jobs = append(jobs, job)
	}

	for _, job := range jobs {
		select {
		case err := <-job.Done():
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			return hashes, ctx.Err()
		}
	}

	return hashes, errors.Join(errs...)
}
