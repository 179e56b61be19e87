package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mayachat/maya-tui/client"
)

// DefaultPollInterval is the cadence between video job status checks.
const DefaultPollInterval = 2 * time.Second

// JobGetter is the slice of the gateway the poller needs.
type JobGetter interface {
	VideoJob(ctx context.Context, jobID string) (*client.VideoJobResponse, error)
}

// applyFunc receives one status observation for a message's job. url is
// non-empty only with JobReady.
type applyFunc func(messageID string, status JobStatus, url string)

// JobPoller runs one polling loop per in-flight video job. Each loop checks
// the job on a fixed cadence, strictly one check in flight at a time, and
// stops itself on the first terminal status. Loops are keyed by the owning
// message's immutable ID so transcript changes can never misroute an update.
type JobPoller struct {
	getter   JobGetter
	interval time.Duration
	apply    applyFunc
	log      *zap.Logger

	mu   sync.Mutex
	jobs map[string]context.CancelFunc
	wg   sync.WaitGroup
}

// NewJobPoller builds a poller delivering observations through apply.
func NewJobPoller(getter JobGetter, interval time.Duration, apply applyFunc, log *zap.Logger) *JobPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &JobPoller{
		getter:   getter,
		interval: interval,
		apply:    apply,
		log:      log,
		jobs:     make(map[string]context.CancelFunc),
	}
}

// Start begins polling jobID on behalf of messageID. A second Start for the
// same message is a no-op: a message never has two pollers.
func (p *JobPoller) Start(messageID, jobID string) {
	p.mu.Lock()
	if _, exists := p.jobs[messageID]; exists {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.jobs[messageID] = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	p.log.Debug("poll start", zap.String("message", messageID), zap.String("job", jobID))
	go p.run(ctx, messageID, jobID)
}

// Cancel stops the poller for one message, if any.
func (p *JobPoller) Cancel(messageID string) {
	p.mu.Lock()
	cancel, ok := p.jobs[messageID]
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

// CancelAll stops every active loop and waits for them to exit. Safe to call
// with zero active pollers, and required whenever the owning session goes
// away: a leaked loop would keep mutating a transcript nobody sees.
func (p *JobPoller) CancelAll() {
	p.mu.Lock()
	for _, cancel := range p.jobs {
		cancel()
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Active returns the number of live polling loops.
func (p *JobPoller) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

func (p *JobPoller) run(ctx context.Context, messageID, jobID string) {
	defer p.wg.Done()
	defer p.remove(messageID)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		resp, err := p.getter.VideoJob(ctx, jobID)
		if ctx.Err() != nil {
			// Cancelled while the check was in flight; the result no longer
			// belongs to anyone.
			return
		}
		if err != nil {
			// A failed check fails the job. No retry.
			p.log.Warn("video job check failed", zap.String("job", jobID), zap.Error(err))
			p.apply(messageID, JobFailed, "")
			return
		}

		switch resp.Status {
		case "ready":
			p.apply(messageID, JobReady, resp.VideoURL)
			return
		case "failed":
			p.apply(messageID, JobFailed, "")
			return
		case "pending":
			p.apply(messageID, JobPending, "")
		case "processing":
			p.apply(messageID, JobProcessing, "")
		default:
			p.log.Warn("unknown job status", zap.String("job", jobID), zap.String("status", resp.Status))
		}

		timer.Reset(p.interval)
	}
}

func (p *JobPoller) remove(messageID string) {
	p.mu.Lock()
	if cancel, ok := p.jobs[messageID]; ok {
		cancel()
		delete(p.jobs, messageID)
	}
	p.mu.Unlock()
}
