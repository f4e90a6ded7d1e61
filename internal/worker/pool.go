// Package worker holds a small fixed pool used for post-commit work such as
// audit-log writes, so the transfer path never blocks on it.
package worker

import (
	"sync"
)

type task func()

type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

func NewPool(n int) *Pool {
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f task) { p.jobs <- f }

// Stop closes the queue and waits for queued jobs to drain.
func (p *Pool) Stop() { close(p.jobs); p.wg.Wait() }
