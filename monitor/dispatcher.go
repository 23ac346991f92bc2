package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultDispatchTimeout bounds a single notification delivery attempt.
const DefaultDispatchTimeout = 10 * time.Second

// AlertDispatcher sends an external notification for critical verdicts.
// Delivery is best-effort and at-least-once: there is no dedup store, so
// re-evaluating the same article re-sends its alerts.
type AlertDispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      *zap.Logger
}

// NewAlertDispatcher creates a dispatcher over the given notification
// channel. timeout <= 0 falls back to the default.
func NewAlertDispatcher(notifier Notifier, timeout time.Duration, logger *zap.Logger) *AlertDispatcher {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertDispatcher{notifier: notifier, timeout: timeout, log: logger}
}

// Dispatch delivers a human-readable alert for one verdict. Callers invoke it
// once per critical verdict; a failure is returned for logging but must never
// abort the pipeline.
func (d *AlertDispatcher) Dispatch(ctx context.Context, verdict RiskVerdict) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, formatAlert(verdict)); err != nil {
		return &DispatchError{Err: err}
	}

	d.log.Info("alert dispatched",
		zap.String("monitor", verdict.Monitor),
		zap.String("risk", string(verdict.Risk)))
	return nil
}

func formatAlert(v RiskVerdict) string {
	msg := fmt.Sprintf("[%s] Reputation risk for %q: %s", v.Risk, v.Monitor, v.Reason)
	if v.Summary != "" {
		msg += "\nArticle: " + v.Summary
	}
	return msg
}
