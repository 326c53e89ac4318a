// Package pool implements a fixed-size worker pool with pause/resume
// and drain-to-quiescence, the primitive the Shadow-Swap Coordinator
// uses to get exclusive access to the live store file.
//
// It is modeled directly on the original engine's hand-rolled C++
// thread pool: one mutex guarding a FIFO task queue plus three
// distinct condition variables, one per predicate. Collapsing them
// onto a single condition variable causes spurious wakeups that
// silently defeat drain.
package pool

import (
	"errors"
	"sync"
)

// ErrStopped is returned by Submit once Shutdown has been called.
var ErrStopped = errors.New("pool: submit on stopped pool")

// Pool is a fixed-size set of workers fed by an unbounded FIFO queue.
type Pool struct {
	mu sync.Mutex

	// notEmptyOrStopped wakes a worker when the queue gains a task or
	// the pool starts shutting down.
	notEmptyOrStopped *sync.Cond
	// resumed wakes a worker blocked by pause.
	resumed *sync.Cond
	// drained wakes a caller blocked in Drain.
	drained *sync.Cond

	tasks       []func()
	stopped     bool
	paused      bool
	activeTasks int

	wg sync.WaitGroup
}

// New starts numWorkers goroutines pulling from an unbounded queue.
func New(numWorkers int) *Pool {
	p := &Pool{}
	p.notEmptyOrStopped = sync.NewCond(&p.mu)
	p.resumed = sync.NewCond(&p.mu)
	p.drained = sync.NewCond(&p.mu)

	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		task, ok := p.next()
		if !ok {
			return
		}
		task()
		p.finish()
	}
}

// next blocks until a task is available and the pool is not paused,
// or the pool is stopping with an empty queue (in which case ok is
// false). Once the pool is stopping, a pause no longer holds workers
// back: they work the queue down and then exit.
func (p *Pool) next() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		for p.paused && !p.stopped {
			p.resumed.Wait()
		}
		for !p.stopped && !p.paused && len(p.tasks) == 0 {
			p.notEmptyOrStopped.Wait()
		}
		if p.stopped && len(p.tasks) == 0 {
			return nil, false
		}
		if p.paused && !p.stopped {
			continue
		}
		if len(p.tasks) == 0 {
			continue
		}

		task := p.tasks[0]
		p.tasks = p.tasks[1:]
		p.activeTasks++
		return task, true
	}
}

func (p *Pool) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.activeTasks--
	if p.activeTasks == 0 {
		p.drained.Broadcast()
	}
}

// Submit enqueues task for execution. Returns ErrStopped if Shutdown
// has already been called.
func (p *Pool) Submit(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	p.tasks = append(p.tasks, task)
	p.notEmptyOrStopped.Signal()
	return nil
}

// Pause tells workers to finish their current task, then block before
// taking the next one.
func (p *Pool) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
}

// Resume unblocks workers parked by Pause.
func (p *Pool) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = false
	p.resumed.Broadcast()
}

// Drain blocks the caller until active_tasks is zero, meaning no
// worker is mid-task. Intended to be called after Pause: with the
// pool paused, a zero active count means every worker is parked
// waiting on resume, so no goroutine holds a reference into the store
// the caller is about to swap out from under it. Tasks that were
// queued after Pause stay queued — they are inert until Resume and do
// not need to drain for the swap to be safe.
func (p *Pool) Drain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.activeTasks != 0 {
		p.drained.Wait()
	}
}

// Shutdown wakes all workers, lets them exit once the queue is empty,
// and joins them. Submit after Shutdown returns ErrStopped.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.notEmptyOrStopped.Broadcast()
	p.resumed.Broadcast()
	p.wg.Wait()
}
