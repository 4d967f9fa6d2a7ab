// File: pool/options.go
// Package pool defines functional options for pool construction.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/internal/logger"
)

type options struct {
	name    string
	logger  *zap.Logger
	limiter api.WarningLimiter
	fatal   func(error)
}

// Option customizes pool initialization.
type Option func(*options)

// WithName labels the pool in log fields and metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used for exhaustion warnings and fatal reports.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWarningLimiter replaces the process-wide exhaustion warning throttle.
func WithWarningLimiter(l api.WarningLimiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithFatalHandler overrides the handler invoked on unrecoverable allocation
// failure. The default logs the error and exits the process with status 1.
func WithFatalHandler(fn func(error)) Option {
	return func(o *options) {
		o.fatal = fn
	}
}

func buildOptions(defaultName string, opts []Option) options {
	o := options{name: defaultName}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Default()
	}
	if o.limiter == nil {
		o.limiter = DefaultWarningLimiter()
	}
	if o.fatal == nil {
		l := o.logger
		o.fatal = func(err error) {
			l.Fatal("pool: unrecoverable allocation failure", zap.Error(err))
		}
	}
	return o
}
