package ace2

import (
	"context"
	"log/slog"
	"time"

	"github.com/ace2go/ace2/metrics"
)

// RetryPolicy configures DialWithRetry's backoff, modeled on the
// transport's own reconnect-recovery rhythm: a short, fixed tick, bounded
// by a maximum number of attempts so a permanently unreachable panel
// fails closed rather than retrying forever.
type RetryPolicy struct {
	Interval    time.Duration
	MaxAttempts int // 0 means unlimited, bounded only by ctx
}

func (p RetryPolicy) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return 2 * time.Second
}

// DialWithRetry calls Connect repeatedly on a fixed interval until it
// succeeds, ctx is cancelled, or MaxAttempts is exhausted.
func DialWithRetry(ctx context.Context, cfg Config, policy RetryPolicy, logger *slog.Logger, mc *metrics.Collector) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(policy.interval())
	defer ticker.Stop()

	var lastErr error
	for attempt := 1; policy.MaxAttempts == 0 || attempt <= policy.MaxAttempts; attempt++ {
		client, err := Connect(ctx, cfg, logger, mc)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warn("connect attempt failed", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
	return nil, newError(CodeTransport, "exhausted retry attempts", lastErr)
}
