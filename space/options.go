package space

import "github.com/YuminosukeSato/leslie/pkg/log"

// Option is a function that configures a FunctionSpace
type Option func(*FunctionSpace)

// WithWorkers sets the number of goroutines used to build design matrices.
// Zero or negative means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *FunctionSpace) {
		s.workers = n
	}
}

// WithParallelThreshold sets the number of sample points at or below which
// design matrices are built sequentially.
func WithParallelThreshold(n int) Option {
	return func(s *FunctionSpace) {
		s.threshold = n
	}
}

// WithLogger sets the logger used for assembly diagnostics
func WithLogger(l log.Logger) Option {
	return func(s *FunctionSpace) {
		s.logger = l
	}
}
