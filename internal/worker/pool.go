package worker

import (
	"hash/fnv"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/baharkarakas/thoughts-backend/internal/metrics"
)

type task func()

const queueSize = 1024

// Pool runs background jobs (cascade cleanup, event publishing) on a fixed
// number of goroutines. Each goroutine owns its queue, so jobs submitted
// under the same key run in submission order.
type Pool struct {
	wg     sync.WaitGroup
	queues []chan task
	next   atomic.Uint64
	log    *slog.Logger

	mu      sync.RWMutex
	stopped bool
}

func NewPool(n int, log *slog.Logger) *Pool {
	return newPool(n, queueSize, log)
}

func newPool(n, size int, log *slog.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	per := size / n
	if per < 1 {
		per = 1
	}
	p := &Pool{queues: make([]chan task, n), log: log}
	for i := range p.queues {
		q := make(chan task, per)
		p.queues[i] = q
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range q {
				metrics.WorkerQueueDepth.Dec()
				p.run(job)
			}
		}()
	}
	return p
}

func (p *Pool) run(job task) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("worker job panicked", "panic", rec)
		}
	}()
	job()
}

// Submit queues f on the next worker. It never blocks: it reports false
// once the pool is stopped or when that worker's queue is full, and the
// caller decides what to do with the job.
func (p *Pool) Submit(f task) bool {
	return p.enqueue(int(p.next.Add(1)%uint64(len(p.queues))), f)
}

// SubmitKey queues f on the worker owning key. Same semantics as Submit.
func (p *Pool) SubmitKey(key string, f task) bool {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return p.enqueue(int(h.Sum32()%uint32(len(p.queues))), f)
}

func (p *Pool) enqueue(i int, f task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	select {
	case p.queues[i] <- f:
		metrics.WorkerQueueDepth.Inc()
		return true
	default:
		metrics.WorkerQueueFull.Inc()
		return false
	}
}

// Stop drains queued jobs and waits for the workers to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
