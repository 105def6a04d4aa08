package batch

import (
	"log/slog"
	"sync"

	"github.com/spoolworks/spool/pkg/markdown"
)

var (
	defaultNumWorkers   uint = 4
	defaultJobQueueSize uint = 256
)

// Job is one file conversion for the pool to execute.
type Job struct {
	InputPath  string
	OutputPath string
}

// Outcome is the terminal state of one Job.
type Outcome struct {
	Job    Job
	Result *markdown.Result
	Err    error
}

// Pool converts files concurrently on a fixed set of workers. Conversions
// are mutually independent and idempotent, so parallelizing across
// conversations is safe; diagnostics travel inside each Outcome, keeping
// single-writer discipline at the collector.
type Pool struct {
	converter *markdown.Converter
	queue     chan Job
	results   chan Outcome
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// PoolConfig configures a Pool.
type PoolConfig struct {
	// Converter performs the actual conversions. Required.
	Converter *markdown.Converter

	// NumWorkers is the number of conversion workers (defaults to 4).
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger receives per-job debug logs.
	Logger *slog.Logger
}

// NewPool creates a Pool and starts its workers.
func NewPool(c PoolConfig) *Pool {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}
	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	p := &Pool{
		converter: c.Converter,
		queue:     make(chan Job, c.QueueSize),
		results:   make(chan Outcome, c.QueueSize),
		logger:    c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p
}

// Enqueue submits a job. Blocks when the queue is full; batch runs want
// backpressure, not dropped files.
func (p *Pool) Enqueue(job Job) {
	p.queue <- job
}

// Results returns the outcome channel. It is closed by Close after all
// in-flight jobs drain.
func (p *Pool) Results() <-chan Outcome {
	return p.results
}

// Close signals workers to stop, waits for in-flight jobs, then closes the
// results channel. Call after the final Enqueue.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
	close(p.results)
}

func (p *Pool) worker(id uint) {
	defer p.wg.Done()

	for job := range p.queue {
		result, err := p.converter.ConvertFile(job.InputPath, job.OutputPath)
		if p.logger != nil {
			p.logger.Debug("converted",
				"worker", id,
				"input", job.InputPath,
				"err", err,
			)
		}
		p.results <- Outcome{Job: job, Result: result, Err: err}
	}
}
