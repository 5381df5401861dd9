package selgo

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	historyLimit     int
}

// Option configures Engine constructor behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. logger/metrics-specific constructor variants).
type Option func(*options)

// WithLogger configures structured logging for the engine.
// Pass nil to disable logging entirely.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// gestures. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &selgo.BasicMetricsCollector{}
//	eng := selgo.New(selgo.WithMetricsCollector(metrics))
func WithMetricsCollector(c MetricsCollector) Option {
	return func(o *options) {
		if c == nil {
			c = NoopMetricsCollector{}
		}
		o.metricsCollector = c
	}
}

// WithHistoryLimit bounds the undo history to the given number of gestures.
// A limit of 0 disables undo/redo entirely. The default is 64.
//
// Each history slot holds a full copy of the label buffer, so memory cost is
// limit * n * 4 bytes in the worst case.
func WithHistoryLimit(limit int) Option {
	return func(o *options) {
		if limit < 0 {
			limit = 0
		}
		o.historyLimit = limit
	}
}
