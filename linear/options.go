package linear

import "github.com/YuminosukeSato/leslie/pkg/log"

type config struct {
	policy         Policy
	conditionLimit float64
	rcond          float64
	equilibrate    bool
	logger         log.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		policy:         PolicyReject,
		conditionLimit: DefaultConditionLimit,
		rcond:          DefaultRcond,
		logger:         log.GetLoggerWithName("linear"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option is a function that configures a Solver or LeastSquares
type Option func(*config)

// WithPolicy sets how singular or ill-conditioned normal matrices are handled
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithConditionLimit sets the largest condition number PolicyReject accepts
func WithConditionLimit(limit float64) Option {
	return func(c *config) {
		c.conditionLimit = limit
	}
}

// WithRcond sets the relative singular value cutoff used by PolicyMinNorm
func WithRcond(rcond float64) Option {
	return func(c *config) {
		c.rcond = rcond
	}
}

// WithEquilibration scales design matrix columns to unit norm before solving
func WithEquilibration(on bool) Option {
	return func(c *config) {
		c.equilibrate = on
	}
}

// WithLogger sets the logger
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
