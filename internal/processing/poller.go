package processing

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Polqt/aica-bot-sub001/internal/apperr"
	"github.com/Polqt/aica-bot-sub001/internal/config"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

// Fetcher returns the current pipeline status. *api.Client implements it.
type Fetcher interface {
	ProcessingStatus(ctx context.Context) (*models.ProcessingStatusResponse, error)
}

// Update is one observed status
type Update struct {
	Attempt  int
	Status   Status
	Content  Content
	Response *models.ProcessingStatusResponse
	Err      error
}

// Result is the outcome of a Run
type Result struct {
	Status   Status
	Attempts int
	Last     *models.ProcessingStatusResponse
}

// Poller queries the status endpoint until the pipeline reaches a terminal
// status, a request fails, or MaxPolls requests have been sent. Requests are
// exactly Interval apart; there is no backoff.
type Poller struct {
	fetcher  Fetcher
	maxPolls int
	interval time.Duration
	log      logrus.FieldLogger
	onUpdate func(Update)
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Poller
type Option func(*Poller)

// WithLogger sets the logger used for per-attempt debug lines.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Poller) {
		p.log = log
	}
}

// WithOnUpdate registers fn to be called for every observed status,
// including the final client-side error.
func WithOnUpdate(fn func(Update)) Option {
	return func(p *Poller) {
		p.onUpdate = fn
	}
}

// NewPoller creates a Poller using the polling configuration.
func NewPoller(fetcher Fetcher, cfg config.Polling, opts ...Option) *Poller {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Poller{
		fetcher:  fetcher,
		maxPolls: cfg.MaxPolls,
		interval: cfg.Interval,
		log:      discard,
		onUpdate: func(Update) {},
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxPolls < 1 {
		p.maxPolls = 1
	}
	return p
}

// Run polls until a terminal status. A backend-reported "failed" or
// "not_found" is a normal result with a nil error. Transport failures and
// running out of attempts return StatusError with a classified error.
// When ctx is cancelled Run returns ctx.Err() without reporting further
// updates.
func (p *Poller) Run(ctx context.Context) (*Result, error) {
	result := &Result{Status: StatusChecking}

	for attempt := 1; attempt <= p.maxPolls; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		resp, err := p.fetcher.ProcessingStatus(ctx)
		result.Attempts = attempt
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			p.log.WithFields(logrus.Fields{"attempt": attempt, "error": err}).Debug("status request failed")
			classified := apperr.Classify(err)
			return p.fail(result, classified), classified
		}

		status := Status(resp.Status)
		result.Status = status
		result.Last = resp
		p.log.WithFields(logrus.Fields{"attempt": attempt, "status": status, "step": resp.Step}).Debug("processing status")
		p.onUpdate(Update{Attempt: attempt, Status: status, Content: ContentFor(status), Response: resp})

		if IsTerminal(status) {
			return result, nil
		}
		if attempt == p.maxPolls {
			break
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return result, err
		}
	}

	timeout := apperr.New(apperr.KindTimeout,
		fmt.Sprintf("Processing did not finish after %d status checks. Please try again.", p.maxPolls))
	p.log.WithField("attempts", result.Attempts).Warn("processing status polling gave up")
	return p.fail(result, timeout), timeout
}

func (p *Poller) fail(result *Result, err *apperr.Error) *Result {
	result.Status = StatusError
	p.onUpdate(Update{Attempt: result.Attempts, Status: StatusError, Content: ContentFor(StatusError), Response: result.Last, Err: err})
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
