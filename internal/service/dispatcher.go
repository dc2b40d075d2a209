package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/entity"

	"go.uber.org/zap"
)

// ErrDelivery marks an outbound send failure. A delivery error never blocks
// sibling messages within a cycle, and a pair whose send failed is not
// retried once it has been recorded as seen.
var ErrDelivery = errors.New("alert delivery failed")

// Notifier is the outbound channel capability the dispatcher consumes.
type Notifier interface {
	Post(ctx context.Context, text string) error
}

// pacer enforces a minimum spacing between consecutive send attempts. The
// spacing is a hard guarantee measured attempt-start to attempt-start, not
// a best-effort delay. now and sleep are swappable so tests run without
// wall-clock waits.
type pacer struct {
	minInterval time.Duration
	last        time.Time
	now         func() time.Time
	sleep       func(time.Duration)
}

func newPacer(minInterval time.Duration) *pacer {
	return &pacer{
		minInterval: minInterval,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// wait blocks until at least minInterval has elapsed since the previous
// attempt, then stamps the current attempt.
func (p *pacer) wait() {
	if p.minInterval > 0 && !p.last.IsZero() {
		if remaining := p.minInterval - p.now().Sub(p.last); remaining > 0 {
			p.sleep(remaining)
		}
	}
	p.last = p.now()
}

// Dispatcher sends rendered alerts through the notifier, one at a time,
// spaced by the pacing policy.
type Dispatcher struct {
	notifier Notifier
	pace     *pacer
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher with the given minimum spacing between
// sends.
func NewDispatcher(notifier Notifier, minInterval time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		pace:     newPacer(minInterval),
		logger:   logger.Named("Dispatcher"),
	}
}

// Send delivers one alert after the pacing gate opens. The attempt consumes
// a pacing slot whether or not delivery succeeds.
func (d *Dispatcher) Send(ctx context.Context, msg entity.AlertMessage) error {
	d.pace.wait()

	if err := d.notifier.Post(ctx, msg.Text); err != nil {
		d.logger.Error("Alert delivery failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	d.logger.Info("Alert dispatched")
	return nil
}
