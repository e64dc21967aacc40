// Package pool implements the fixed-size worker pool and FIFO task queue
// the octree's parallel update and Barnes-Hut traversal build on, plus the
// ErrorList/AsyncError types used to aggregate worker failures.
package pool

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ThreadPool is a fixed set of worker goroutines draining a shared
// TaskQueue. Each submitted task is guaranteed to run exactly once.
type ThreadPool struct {
	queue   *TaskQueue
	wg      sync.WaitGroup
	threads int
}

// New starts a ThreadPool with the given number of workers. threads must be
// >= 1, otherwise ErrInvalidArgument is returned.
func New(threads int) (*ThreadPool, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w: threads = %d, must be >= 1", ErrInvalidArgument, threads)
	}

	p := &ThreadPool{queue: NewTaskQueue(), threads: threads}
	p.wg.Add(threads)
	for i := 0; i < threads; i++ {
		go p.worker()
	}
	return p, nil
}

// NewDefault starts a ThreadPool sized to the number of logical CPUs.
func NewDefault() (*ThreadPool, error) {
	return New(runtime.NumCPU())
}

func (p *ThreadPool) worker() {
	defer p.wg.Done()
	for {
		task, ok := p.queue.Pop(true)
		if !ok {
			return
		}
		runTask(task)
	}
}

// runTask executes task, recovering a panicking task so that a single bad
// task cannot take down the worker that was running it.
func runTask(task Task) {
	defer func() {
		_ = recover()
	}()
	task()
}

// ThreadCount returns the number of workers in the pool.
func (p *ThreadPool) ThreadCount() int { return p.threads }

// TasksQueued returns the number of tasks waiting to be picked up.
func (p *ThreadPool) TasksQueued() int { return p.queue.Len() }

// Submit enqueues fn and returns a function that blocks until fn has run
// and returns its error, mirroring the original's future-returning Submit.
func (p *ThreadPool) Submit(fn func() error) func() error {
	done := make(chan struct{})
	var err error
	p.queue.Push(func() {
		defer close(done)
		err = fn()
	})
	return func() error {
		<-done
		return err
	}
}

// ForEach partitions [0, n) into taskCount contiguous chunks (the first
// n%taskCount chunks getting one extra element), submits each chunk as a
// task to the pool via ForEachAsync, and blocks on an errgroup.Group whose
// single Wait collects every chunk's outcome once every index has been
// visited.
// Exceptions from any chunk are collected into an ErrorList and returned as
// a single AsyncError.
func (p *ThreadPool) ForEach(n int, fn func(i int) error, taskCount ...int) error {
	futures := p.ForEachAsync(n, fn, taskCount...)

	var errs ErrorList
	var g errgroup.Group
	for _, future := range futures {
		future := future
		g.Go(func() error {
			if err := future(); err != nil {
				errs.Add(err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return newAsyncError(&errs)
}

// callChunk runs fn(i), converting a panic into an error so that ForEach's
// aggregation behaves the same way for panics and returned errors.
func callChunk(fn func(i int) error, i int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(i)
}

// ForEachAsync is ForEach's non-blocking counterpart: it returns a function
// per chunk that, when called, blocks for that chunk's completion.
func (p *ThreadPool) ForEachAsync(n int, fn func(i int) error, taskCount ...int) []func() error {
	tasks := p.threads
	if len(taskCount) > 0 && taskCount[0] > 0 {
		tasks = taskCount[0]
	}
	if tasks > n {
		tasks = n
	}
	if tasks <= 0 {
		return nil
	}

	futures := make([]func() error, tasks)
	lo := 0
	base, extra := n/tasks, n%tasks
	for t := 0; t < tasks; t++ {
		size := base
		if t < extra {
			size++
		}
		start, end := lo, lo+size
		lo = end

		futures[t] = p.Submit(func() error {
			for i := start; i < end; i++ {
				if err := callChunk(fn, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return futures
}

// Close stops accepting new work, releases all blocked workers, and waits
// for every worker goroutine to exit.
func (p *ThreadPool) Close() {
	p.queue.Close()
	p.wg.Wait()
}
