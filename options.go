package slabarena

import (
	"github.com/hupe1980/slabarena/internal/backing"
	"github.com/hupe1980/slabarena/resource"
)

type options struct {
	store      backing.Store
	logger     *Logger
	metrics    MetricsCollector
	controller *resource.Controller
}

// Option configures New.
type Option func(*options)

// WithBackingStore overrides the backing store. The default is the VM
// store on unix and a heap-backed store elsewhere. Tests use this to
// inject a heap store with a small page size.
func WithBackingStore(s backing.Store) Option {
	return func(o *options) {
		if s != nil {
			o.store = s
		}
	}
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithResourceController attaches a resource controller. Page commits
// in both pools then draw on its memory budget and commit rate limit,
// and decommits credit it back. One controller may be shared by
// several arenas to enforce a global budget.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}
