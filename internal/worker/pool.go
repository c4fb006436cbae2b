// Package worker provides a small fixed-size pool for background jobs that
// must not block request handling, such as mastery writes at session end.
package worker

import "sync"

// Job is a unit of background work.
type Job func() error

// Error pairs a failed job's name with its error. The pool owner is expected
// to drain Errors and log these; jobs themselves never surface failures to
// the code that submitted them.
type Error struct {
	Job string
	Err error
}

type namedJob struct {
	name string
	fn   Job
}

type Pool struct {
	jobs chan namedJob
	errs chan Error
	wg   sync.WaitGroup
}

func NewPool(workerCount, bufferSize int) *Pool {
	p := &Pool{
		jobs: make(chan namedJob, bufferSize),
		errs: make(chan Error, bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := job.fn(); err != nil {
			p.errs <- Error{Job: job.name, Err: err}
		}
	}
}

// Submit queues a job. Blocks when the buffer is full.
func (p *Pool) Submit(name string, fn Job) {
	p.jobs <- namedJob{name: name, fn: fn}
}

// Errors returns the channel of job failures. It must be drained for the
// pool to make progress past failing jobs.
func (p *Pool) Errors() <-chan Error {
	return p.errs
}

// Close waits for queued jobs to finish, then closes the error channel.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.errs)
}
