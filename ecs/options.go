package ecs

import "github.com/rs/zerolog"

type options struct {
	logger        zerolog.Logger
	fixedCapacity bool
}

// Option configures an EntityManager.
type Option func(*options)

// WithLogger sets the logger used for storage growth and scheduler events.
// The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFixedCapacity turns the capacity hint into a hard limit: CreateEntity
// returns ErrCapacityExhausted instead of growing storage. Resize still
// raises the limit explicitly.
func WithFixedCapacity() Option {
	return func(o *options) {
		o.fixedCapacity = true
	}
}
