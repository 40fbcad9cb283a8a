package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var ErrReconcilerAlreadyRunning = errors.New("reconciler already running")

type Recalculator interface {
	Recalculate(ctx context.Context) (int, error)
}

// Reconciler periodically recomputes location property counts. It implements
// startup.StartupDependency; a zero interval disables the loop.
type Reconciler struct {
	counts   Recalculator
	interval time.Duration
	logger   ectologger.Logger

	stopCh   chan struct{}
	stoppedC chan struct{}
	running  bool
	mu       sync.Mutex
}

func NewReconciler(counts Recalculator, interval time.Duration, logger ectologger.Logger) *Reconciler {
	return &Reconciler{
		counts:   counts,
		interval: interval,
		logger:   logger,
	}
}

func (r *Reconciler) GetName() string {
	return "reconciler"
}

func (r *Reconciler) DependsOn() []string {
	return []string{"database"}
}

func (r *Reconciler) Start(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.WithContext(ctx).Info("Location reconciler disabled")
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrReconcilerAlreadyRunning
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.stoppedC = make(chan struct{})

	r.logger.WithContext(ctx).Infof("Starting location reconciler: interval=%s", r.interval)
	go r.loop(context.WithoutCancel(ctx))
	return nil
}

func (r *Reconciler) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	select {
	case <-r.stoppedC:
		r.logger.WithContext(ctx).Info("Location reconciler stopped")
		return nil
	case <-ctx.Done():
		r.logger.WithContext(ctx).Warn("Location reconciler shutdown timed out")
		return ctx.Err()
	}
}

// RunOnce recomputes counts a single time and records the outcome.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "location.Reconciler.RunOnce")
	defer span.End()

	corrected, err := r.counts.Recalculate(ctx)
	if err != nil {
		tracing.RecordError(ctx, err)
		r.logger.WithContext(ctx).WithError(err).Error("Location recount failed")
		metrics.RecordReconcile(metrics.OutcomeFailed, 0)
		return 0, err
	}

	r.logger.WithContext(ctx).WithField("corrected", corrected).Info("Location counts reconciled")
	metrics.RecordReconcile(metrics.OutcomeSuccess, corrected)
	return corrected, nil
}

func (r *Reconciler) loop(ctx context.Context) {
	defer close(r.stoppedC)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			_, _ = r.RunOnce(ctx)
		}
	}
}
