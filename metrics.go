package selgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    gestureCounter *prometheus.CounterVec
//	}
//
//	func (p *PrometheusCollector) RecordApply(mod selgo.Modifier, hits int, duration time.Duration, err error) {
//	    p.gestureCounter.WithLabelValues(mod.String()).Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordApply is called after each gesture.
	// mod is the gesture's modifier combination, hits the hit-set cardinality,
	// duration the total time taken; err is nil if successful.
	RecordApply(mod Modifier, hits int, duration time.Duration, err error)

	// RecordResize is called after each point-set resize.
	RecordResize(n int, err error)

	// RecordUndo is called after each undo/redo request.
	// redo distinguishes the direction, applied is false when the history
	// stack was empty.
	RecordUndo(redo, applied bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordApply(Modifier, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordResize(int, error)                         {}
func (NoopMetricsCollector) RecordUndo(bool, bool)                           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ApplyCount      atomic.Int64
	ApplyErrors     atomic.Int64
	ApplyTotalNanos atomic.Int64
	HitsTotal       atomic.Int64
	ResizeCount     atomic.Int64
	ResizeErrors    atomic.Int64
	UndoCount       atomic.Int64
	RedoCount       atomic.Int64
	UndoMisses      atomic.Int64
}

// RecordApply records a gesture.
func (c *BasicMetricsCollector) RecordApply(_ Modifier, hits int, duration time.Duration, err error) {
	c.ApplyCount.Add(1)
	c.ApplyTotalNanos.Add(duration.Nanoseconds())
	c.HitsTotal.Add(int64(hits))
	if err != nil {
		c.ApplyErrors.Add(1)
	}
}

// RecordResize records a point-set resize.
func (c *BasicMetricsCollector) RecordResize(_ int, err error) {
	c.ResizeCount.Add(1)
	if err != nil {
		c.ResizeErrors.Add(1)
	}
}

// RecordUndo records an undo/redo request.
func (c *BasicMetricsCollector) RecordUndo(redo, applied bool) {
	if redo {
		c.RedoCount.Add(1)
	} else {
		c.UndoCount.Add(1)
	}
	if !applied {
		c.UndoMisses.Add(1)
	}
}

// AverageApplyDuration returns the mean gesture duration, or 0 if no gesture
// has been recorded.
func (c *BasicMetricsCollector) AverageApplyDuration() time.Duration {
	n := c.ApplyCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.ApplyTotalNanos.Load() / n)
}
