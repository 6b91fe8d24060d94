package api

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Detail poll defaults. The service fetches buy links and reviews in a
// background task, so the first few observations normally report
// "processing". The attempt budget keeps a stuck session from polling
// forever; exhausting it fails with ErrPollTimeout wrapped in a PollError.
const (
	DefaultPollInterval    = 2 * time.Second
	DefaultPollMaxAttempts = 60
)

// DetailSource is one observation of the enrichment endpoint.
// *Client satisfies it.
type DetailSource interface {
	ProductDetails(ctx context.Context, sessionID string) (*DetailsStatus, error)
}

// Poller repeatedly queries the enrichment endpoint for a session until it
// reports completion, waiting a fixed interval between attempts.
type Poller struct {
	source      DetailSource
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger
}

// NewPoller creates a poller over source. Non-positive interval or attempt
// budget fall back to the defaults.
func NewPoller(source DetailSource, interval time.Duration, maxAttempts int, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		source:      source,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Await blocks until the session's product details are ready and returns
// them. Any transport failure, unexpected status, context cancellation, or
// an exhausted attempt budget fails with a PollError; callers treat that as
// one terminal attempt and do not retry.
func (p *Poller) Await(ctx context.Context, sessionID string) ([]ProductDetail, error) {
	// Timer starts stopped and drained; each processing round arms it for
	// one interval, so a slow request can never leave a stale tick behind.
	timer := time.NewTimer(p.interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		status, err := p.source.ProductDetails(ctx, sessionID)
		if err != nil {
			return nil, &PollError{SessionID: sessionID, Err: err}
		}

		switch status.Status {
		case StatusCompleted:
			p.logger.Debug("detail poll complete",
				zap.String("session_id", sessionID),
				zap.Int("attempts", attempt),
				zap.Int("products", len(status.ProductDetails)))
			return status.ProductDetails, nil

		case StatusProcessing:
			if attempt >= p.maxAttempts {
				p.logger.Warn("detail poll attempt budget exhausted",
					zap.String("session_id", sessionID),
					zap.Int("attempts", attempt))
				return nil, &PollError{SessionID: sessionID, Status: StatusProcessing, Err: ErrPollTimeout}
			}

			timer.Reset(p.interval)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return nil, &PollError{SessionID: sessionID, Status: StatusProcessing, Err: ctx.Err()}
			case <-timer.C:
			}

		default:
			return nil, &PollError{SessionID: sessionID, Status: status.Status, Err: ErrUnexpectedStatus}
		}
	}
}
