package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rafaelv/memoflash/internal/logger"
)

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i+1)
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.WithField("worker_id", id)
	log.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("worker shutting down (context cancelled)")
			return
		case job := <-p.jobs:
			if job == nil {
				log.Debug("worker shutting down (queue closed)")
				return
			}

			jobLog := log.WithField("job", job.Name())
			jobLog.Debug("starting job")
			start := time.Now()

			jobCtx := logger.NewContext(ctx, jobLog)
			if err := job.Run(jobCtx); err != nil {
				jobLog.Error("job failed after %v: %v", time.Since(start), err)
			} else {
				jobLog.Info("job completed in %v", time.Since(start))
			}
		}
	}
}

func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	if p.cancel != nil {
		p.cancel()
	}
	close(p.jobs)
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

// Submit enqueues a job, dropping it when the queue is full. Warm-up work
// is best effort; a full queue must not block a session start.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		p.log.Debug("submitted job: %s", job.Name())
		return true
	default:
		p.log.Warn("queue full, dropping job: %s", job.Name())
		return false
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
