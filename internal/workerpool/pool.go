// Package workerpool runs tasks on a fixed number of goroutines fed by a bounded queue.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrQueueFull is returned by Submit under the reject policy when the queue has no free slot.
	ErrQueueFull = errors.New("workerpool: queue full")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("workerpool: closed")
)

// Policy decides what Submit does when the queue is full.
type Policy int

const (
	// Block waits for a free queue slot.
	Block Policy = iota
	// Reject fails fast with ErrQueueFull.
	Reject
)

type Config struct {
	Workers    int    `mapstructure:"workers" validate:"gte=0"`
	QueueDepth int    `mapstructure:"queue_depth" validate:"gte=0"`
	Policy     string `mapstructure:"policy" validate:"omitempty,oneof=block reject"`
}

func (c Config) policy() Policy {
	if c.Policy == "reject" {
		return Reject
	}
	return Block
}

// Pool is a fixed set of workers reading from one bounded queue.
type Pool struct {
	name   string
	policy Policy
	tasks  chan func()

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New starts the pool workers. Zero values fall back to defaultWorkers workers
// and a queue of twenty tasks per worker.
func New(name string, c Config, defaultWorkers int) *Pool {
	workers := c.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers <= 0 {
		workers = 1
	}
	depth := c.QueueDepth
	if depth <= 0 {
		depth = workers * 20
	}

	p := &Pool{
		name:   name,
		policy: c.policy(),
		tasks:  make(chan func(), depth),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Error("workerpool task panicked",
				slog.String("pool", p.name),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	task()
}

// Submit enqueues task. Under Block it waits for a slot or for ctx to be done.
// A blocked Submit holds the read lock, so Close waits until workers free a slot for it.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	if p.policy == Reject {
		select {
		case p.tasks <- task:
			return nil
		default:
			return fmt.Errorf("%s: %w", p.name, ErrQueueFull)
		}
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits until queued tasks have run.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (p *Pool) Pending() int {
	return len(p.tasks)
}

// Group tracks a subset of the pool's tasks so a caller can wait for its own work only.
type Group struct {
	pool *Pool
	wg   sync.WaitGroup
}

func (p *Pool) Group() *Group {
	return &Group{pool: p}
}

// Go submits fn as part of the group. If the submit fails fn never runs.
func (g *Group) Go(ctx context.Context, fn func()) error {
	g.wg.Add(1)
	err := g.pool.Submit(ctx, func() {
		defer g.wg.Done()
		fn()
	})
	if err != nil {
		g.wg.Done()
	}
	return err
}

// Wait blocks until every task submitted through the group has finished.
func (g *Group) Wait() {
	g.wg.Wait()
}
