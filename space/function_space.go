// Package space assembles basis functions into an ordered function space and
// evaluates it into design matrices.
//
// A FunctionSpace is built by appending basis functions; the insertion order
// fixes the column order of every design matrix and therefore the meaning of
// each fitted coefficient. The first evaluation freezes the space: from then
// on Append fails with a *errors.FrozenError, so a design matrix computed
// earlier can never be silently invalidated.
package space

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leslie/basis"
	"github.com/YuminosukeSato/leslie/core/model"
	"github.com/YuminosukeSato/leslie/core/parallel"
	"github.com/YuminosukeSato/leslie/pkg/errors"
	"github.com/YuminosukeSato/leslie/pkg/log"
)

// DefaultParallelThreshold is the number of sample points at or below which
// the design matrix is assembled on the calling goroutine.
const DefaultParallelThreshold = 1000

// FunctionSpace is an ordered, possibly heterogeneous collection of basis functions.
type FunctionSpace struct {
	lifecycle model.Lifecycle
	functions []basis.Function

	workers   int
	threshold int
	logger    log.Logger
}

// New creates an empty FunctionSpace in the Building phase.
func New(opts ...Option) *FunctionSpace {
	s := &FunctionSpace{
		threshold: DefaultParallelThreshold,
		logger:    log.GetLoggerWithName("space"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPolynomial creates a space holding x^0, x^1, ..., x^order.
func NewPolynomial(order int, opts ...Option) (*FunctionSpace, error) {
	fs, err := basis.PolynomialBasis(order)
	if err != nil {
		return nil, err
	}
	s := New(opts...)
	for _, f := range fs {
		if err := s.Append(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dimension returns the current number of basis functions.
func (s *FunctionSpace) Dimension() int {
	var n int
	s.lifecycle.View(func() { n = len(s.functions) })
	return n
}

// Append adds f as the last basis function.
func (s *FunctionSpace) Append(f basis.Function) error {
	if f == nil {
		return errors.NewValidationError("function", "must not be nil", nil)
	}
	if !s.lifecycle.Mutate(func() { s.functions = append(s.functions, f) }) {
		return errors.NewFrozenError("FunctionSpace.Append", s.Dimension())
	}
	return nil
}

// Freeze ends the Building phase. Evaluation methods call it implicitly.
func (s *FunctionSpace) Freeze() {
	if s.lifecycle.Freeze() {
		s.logger.Debug("function space frozen",
			log.DimensionKey, len(s.functions),
			log.BasisKey, s.Labels(),
		)
	}
}

// IsFrozen reports whether the space has left the Building phase.
func (s *FunctionSpace) IsFrozen() bool {
	return s.lifecycle.IsFrozen()
}

// Functions returns a copy of the basis in column order.
func (s *FunctionSpace) Functions() []basis.Function {
	var out []basis.Function
	s.lifecycle.View(func() { out = append([]basis.Function(nil), s.functions...) })
	return out
}

// Labels returns the String() of every basis function in column order.
func (s *FunctionSpace) Labels() []string {
	fs := s.Functions()
	labels := make([]string, len(fs))
	for i, f := range fs {
		labels[i] = f.String()
	}
	return labels
}

// Function returns basis function i.
func (s *FunctionSpace) Function(i int) (basis.Function, error) {
	fs := s.Functions()
	if i < 0 || i >= len(fs) {
		return nil, errors.NewIndexError("FunctionSpace.Function", i, len(fs))
	}
	return fs[i], nil
}

// frozenFunctions freezes the space and returns its basis without copying.
// The slice is never mutated once frozen.
func (s *FunctionSpace) frozenFunctions() []basis.Function {
	s.Freeze()
	return s.functions
}

// EvaluateAt evaluates basis function i at x.
func (s *FunctionSpace) EvaluateAt(i int, x float64) (float64, error) {
	fs := s.frozenFunctions()
	if i < 0 || i >= len(fs) {
		return 0, errors.NewIndexError("FunctionSpace.EvaluateAt", i, len(fs))
	}
	v, err := fs[i].Evaluate(x)
	if err != nil {
		return 0, errors.WithDomainLocation(err, i, -1)
	}
	return v, nil
}

// EvaluateRow evaluates every basis function at x, in column order.
func (s *FunctionSpace) EvaluateRow(x float64) (*mat.VecDense, error) {
	fs := s.frozenFunctions()
	if len(fs) == 0 {
		return nil, errors.NewValidationErrorWithCause("space", "no basis functions", 0, errors.ErrEmptySpace)
	}
	row := make([]float64, len(fs))
	if err := evaluateRowInto(fs, x, -1, row); err != nil {
		return nil, err
	}
	return mat.NewVecDense(len(row), row), nil
}

// EvaluateColumn evaluates basis function i at every point of xs.
func (s *FunctionSpace) EvaluateColumn(i int, xs []float64) (*mat.VecDense, error) {
	fs := s.frozenFunctions()
	if i < 0 || i >= len(fs) {
		return nil, errors.NewIndexError("FunctionSpace.EvaluateColumn", i, len(fs))
	}
	if len(xs) == 0 {
		return nil, errors.NewInvalidInputError("FunctionSpace.EvaluateColumn", "no sample points", -1, errors.ErrEmptyData)
	}
	col := make([]float64, len(xs))
	for l, x := range xs {
		v, err := fs[i].Evaluate(x)
		if err != nil {
			return nil, errors.WithDomainLocation(err, i, l)
		}
		col[l] = v
	}
	return mat.NewVecDense(len(col), col), nil
}

// BuildDesignMatrix returns the len(xs) × Dimension() matrix whose (i, k)
// entry is basis function k evaluated at xs[i].
//
// Rows are assembled concurrently above the parallel threshold. If any entry
// fails, no matrix is returned; the error reported is the one for the lowest
// failing sample index.
func (s *FunctionSpace) BuildDesignMatrix(xs []float64) (*mat.Dense, error) {
	return s.BuildDesignMatrixContext(context.Background(), xs)
}

// BuildDesignMatrixContext is BuildDesignMatrix with cancellation checked
// between rows.
func (s *FunctionSpace) BuildDesignMatrixContext(ctx context.Context, xs []float64) (*mat.Dense, error) {
	fs := s.frozenFunctions()
	if len(fs) == 0 {
		return nil, errors.NewValidationErrorWithCause("space", "no basis functions", 0, errors.ErrEmptySpace)
	}
	if len(xs) == 0 {
		return nil, errors.NewInvalidInputError("FunctionSpace.BuildDesignMatrix", "no sample points", -1, errors.ErrEmptyData)
	}

	start := time.Now()
	rows, cols := len(xs), len(fs)
	data := make([]float64, rows*cols)

	err := parallel.ForEachChunkWithThreshold(rows, s.threshold, s.workers, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := evaluateRowInto(fs, xs[i], i, data[i*cols:(i+1)*cols]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("design matrix assembly failed", err,
			log.OperationKey, log.OperationBuildDesignMatrix,
			log.SamplesKey, rows,
		)
		return nil, err
	}

	s.logger.Debug("design matrix built",
		log.OperationKey, log.OperationBuildDesignMatrix,
		log.SamplesKey, rows,
		log.DimensionKey, cols,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return mat.NewDense(rows, cols, data), nil
}

func evaluateRowInto(fs []basis.Function, x float64, sample int, dst []float64) error {
	for k, f := range fs {
		v, err := f.Evaluate(x)
		if err != nil {
			return errors.WithDomainLocation(err, k, sample)
		}
		dst[k] = v
	}
	return nil
}
