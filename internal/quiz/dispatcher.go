package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/aiquiz"
	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/saulo-duarte/studyquiz/internal/events"
	"github.com/saulo-duarte/studyquiz/internal/metrics"
	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull        = errors.New("generation queue is full")
	ErrDispatcherClosed = errors.New("generation dispatcher is shut down")
	ErrShuttingDown     = errors.New("server shutting down")
)

const terminalWriteTimeout = 10 * time.Second

type Job struct {
	QuizID     uuid.UUID
	UserID     uuid.UUID
	Texts      []string
	Settings   aiquiz.Settings
	EnqueuedAt time.Time
}

type queuedJob struct {
	ctx context.Context
	job Job
}

type runningJob struct {
	queuedJob
	cancel context.CancelFunc
}

type DispatcherConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher runs generation jobs on a fixed pool of workers. Every job it
// accepts or rejects ends with exactly one terminal write for its quiz.
type Dispatcher struct {
	repo      Repository
	generator aiquiz.Generator
	publisher events.Publisher
	cfg       DispatcherConfig

	jobs   chan queuedJob
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	runMu     sync.Mutex
	running   map[uuid.UUID]runningJob
	abandoned bool
}

func NewDispatcher(repo Repository, generator aiquiz.Generator, publisher events.Publisher, cfg DispatcherConfig) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Minute
	}

	return &Dispatcher{
		repo:      repo,
		generator: generator,
		publisher: publisher,
		cfg:       cfg,
		jobs:      make(chan queuedJob, cfg.QueueSize),
		running:   make(map[uuid.UUID]runningJob),
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Enqueue never blocks. The job keeps the request's values but not its
// cancellation, so a client disconnect does not abort generation.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
	detached := context.WithoutCancel(ctx)

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		d.finish(detached, job, nil, ErrDispatcherClosed)
		return ErrDispatcherClosed
	}

	select {
	case d.jobs <- queuedJob{ctx: detached, job: job}:
		metrics.SetQueueDepth(len(d.jobs))
		d.mu.RUnlock()
		return nil
	default:
		d.mu.RUnlock()
		d.finish(detached, job, nil, ErrQueueFull)
		return ErrQueueFull
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for q := range d.jobs {
		metrics.SetQueueDepth(len(d.jobs))
		d.run(q)
	}
}

func (d *Dispatcher) run(q queuedJob) {
	log := jobLogger(q.ctx, q.job)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Generation job panicked")
			d.finish(q.ctx, q.job, nil, fmt.Errorf("failed to generate quiz with AI: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(q.ctx, d.cfg.Timeout)
	defer cancel()

	if !d.track(q, cancel) {
		d.finish(q.ctx, q.job, nil, ErrShuttingDown)
		return
	}
	defer d.untrack(q.job.QuizID)

	log.Info("Generation started")
	questions, err := d.generator.Generate(ctx, q.job.Texts, q.job.Settings)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("failed to generate quiz with AI: generation timed out after %s", d.cfg.Timeout)
	}
	d.finish(q.ctx, q.job, questions, err)
}

func (d *Dispatcher) finish(ctx context.Context, job Job, generated []aiquiz.GeneratedQuestion, genErr error) {
	log := jobLogger(ctx, job)

	outcome := Outcome{Status: StatusCompleted, Questions: questionsFrom(generated)}
	if genErr != nil {
		msg := genErr.Error()
		outcome = Outcome{Status: StatusFailed, Error: &msg}
	}

	writeCtx, cancel := context.WithTimeout(ctx, terminalWriteTimeout)
	defer cancel()

	if err := d.repo.FinishGeneration(writeCtx, job.QuizID, outcome); err != nil {
		if errors.Is(err, ErrAlreadyTerminal) {
			log.Warn("Quiz left generating before the job finished, result discarded")
			return
		}
		log.WithError(err).Error("Failed to record generation result")
		return
	}

	metrics.ObserveGeneration(string(outcome.Status), time.Since(job.EnqueuedAt))

	if genErr != nil {
		log.WithError(genErr).Warn("Quiz generation failed")
		if err := d.publisher.PublishQuizFailed(writeCtx, events.NewQuizFailedEvent(job.QuizID, job.UserID, *outcome.Error)); err != nil {
			log.WithError(err).Warn("Failed to publish generation event")
		}
		return
	}

	log.WithField("questions", len(outcome.Questions)).Info("Quiz generation complete")
	if err := d.publisher.PublishQuizGenerated(writeCtx, events.NewQuizGeneratedEvent(job.QuizID, job.UserID, len(outcome.Questions))); err != nil {
		log.WithError(err).Warn("Failed to publish generation event")
	}
}

const interruptedReason = "generation interrupted by server restart"

// FailInterrupted fails quizzes left generating by an earlier process. Call it
// before Start; quizzes newer than the generation timeout are left alone.
func (d *Dispatcher) FailInterrupted(ctx context.Context, now time.Time) (int64, error) {
	return d.repo.FailStale(ctx, now.Add(-d.cfg.Timeout), interruptedReason)
}

// track registers a job as in flight. It reports false once Shutdown has
// given up waiting, in which case the job must not start.
func (d *Dispatcher) track(q queuedJob, cancel context.CancelFunc) bool {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	if d.abandoned {
		return false
	}
	d.running[q.job.QuizID] = runningJob{queuedJob: q, cancel: cancel}
	return true
}

func (d *Dispatcher) untrack(id uuid.UUID) {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	delete(d.running, id)
}

// Shutdown stops intake and waits for queued jobs to drain. If ctx ends
// first, every job still queued or running is failed so no quiz is left
// generating, and running generations are cancelled.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	d.runMu.Lock()
	d.abandoned = true
	running := make([]runningJob, 0, len(d.running))
	for _, r := range d.running {
		running = append(running, r)
	}
	d.runMu.Unlock()

	for q := range d.jobs {
		d.finish(q.ctx, q.job, nil, ErrShuttingDown)
	}
	for _, r := range running {
		d.finish(r.ctx, r.job, nil, ErrShuttingDown)
		r.cancel()
	}
	metrics.SetQueueDepth(0)
	return ctx.Err()
}

func jobLogger(ctx context.Context, job Job) *logrus.Entry {
	return config.WithContext(ctx).WithFields(logrus.Fields{
		"quiz_id": job.QuizID,
		"user_id": job.UserID,
	})
}
