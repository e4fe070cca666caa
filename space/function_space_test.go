package space

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leslie/basis"
	"github.com/YuminosukeSato/leslie/pkg/errors"
	"github.com/YuminosukeSato/leslie/pkg/log"
)

func quietSpace(t *testing.T, opts ...Option) *FunctionSpace {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelError)
	return New(append([]Option{WithLogger(logger)}, opts...)...)
}

func TestAppendAndDimension(t *testing.T) {
	s := quietSpace(t)
	assert.Equal(t, 0, s.Dimension())
	assert.False(t, s.IsFrozen())

	require.NoError(t, s.Append(basis.NewPolynomial(0)))
	require.NoError(t, s.Append(basis.NewPolynomial(1)))
	require.NoError(t, s.Append(basis.NewLogarithm(1)))

	assert.Equal(t, 3, s.Dimension())
	assert.Equal(t, []string{"x^0", "x^1", "ln(1*x)"}, s.Labels())
	assert.False(t, s.IsFrozen(), "inspection must not freeze the space")

	var ve *errors.ValidationError
	assert.True(t, errors.As(s.Append(nil), &ve))
}

func TestAppendAfterFreezeFails(t *testing.T) {
	s, err := NewPolynomial(1)
	require.NoError(t, err)

	xs := []float64{1, 2, 3}
	before, err := s.BuildDesignMatrix(xs)
	require.NoError(t, err)
	assert.True(t, s.IsFrozen())

	err = s.Append(basis.NewPolynomial(2))
	var fe *errors.FrozenError
	require.True(t, errors.As(err, &fe), "expected FrozenError, got %v", err)
	assert.True(t, errors.Is(err, errors.ErrFrozen))
	assert.Equal(t, 2, fe.Dimension)
	assert.Equal(t, 2, s.Dimension())

	after, err := s.BuildDesignMatrix(xs)
	require.NoError(t, err)
	assert.True(t, mat.Equal(before, after))
}

func TestExplicitFreeze(t *testing.T) {
	s := quietSpace(t)
	require.NoError(t, s.Append(basis.NewExponentialDefault()))
	s.Freeze()
	s.Freeze()

	assert.True(t, errors.Is(s.Append(basis.NewPolynomial(0)), errors.ErrFrozen))
}

func TestEvaluateAt(t *testing.T) {
	s := quietSpace(t)
	require.NoError(t, s.Append(basis.NewPolynomial(2)))
	require.NoError(t, s.Append(basis.NewLogarithm(1)))

	v, err := s.EvaluateAt(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
	assert.True(t, s.IsFrozen(), "first evaluation freezes")

	for _, i := range []int{-1, 2, 100} {
		_, err := s.EvaluateAt(i, 1)
		var ie *errors.IndexError
		require.True(t, errors.As(err, &ie), "index %d", i)
		assert.Equal(t, i, ie.Index)
		assert.Equal(t, 2, ie.Len)
	}

	_, err = s.EvaluateAt(1, -1)
	var de *errors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.BasisIndex)
	assert.Equal(t, -1, de.SampleIndex)
}

func TestEvaluateRowPreservesOrder(t *testing.T) {
	s := quietSpace(t)
	require.NoError(t, s.Append(basis.NewLogarithm(1)))
	require.NoError(t, s.Append(basis.NewPolynomial(0)))
	require.NoError(t, s.Append(basis.NewExponential(2)))

	row, err := s.EvaluateRow(1)
	require.NoError(t, err)

	want := []float64{0, 1, math.Exp(2)}
	if diff := cmp.Diff(want, row.RawVector().Data, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateColumn(t *testing.T) {
	s, err := NewPolynomial(2)
	require.NoError(t, err)

	col, err := s.EvaluateColumn(2, []float64{0, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 4, 9}, col.RawVector().Data)

	_, err = s.EvaluateColumn(3, []float64{1})
	var ie *errors.IndexError
	assert.True(t, errors.As(err, &ie))

	_, err = s.EvaluateColumn(0, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestBuildDesignMatrix(t *testing.T) {
	s, err := NewPolynomial(2)
	require.NoError(t, err)

	m, err := s.BuildDesignMatrix([]float64{0, 1, 2, 3})
	require.NoError(t, err)

	want := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		1, 1, 1,
		1, 2, 4,
		1, 3, 9,
	})
	assert.True(t, mat.Equal(want, m), "got\n%v", mat.Formatted(m))
}

func TestBuildDesignMatrixParallelMatchesSequential(t *testing.T) {
	xs := make([]float64, 5000)
	for i := range xs {
		xs[i] = 0.001 * float64(i+1)
	}

	build := func(opts ...Option) *mat.Dense {
		s := quietSpace(t, opts...)
		require.NoError(t, s.Append(basis.NewPolynomial(1)))
		require.NoError(t, s.Append(basis.NewLogarithm(1)))
		require.NoError(t, s.Append(basis.NewExponential(-1)))
		m, err := s.BuildDesignMatrix(xs)
		require.NoError(t, err)
		return m
	}

	sequential := build(WithParallelThreshold(len(xs)))
	concurrent := build(WithParallelThreshold(0), WithWorkers(7))
	assert.True(t, mat.Equal(sequential, concurrent))
}

func TestBuildDesignMatrixFailsAsAWhole(t *testing.T) {
	xs := make([]float64, 3000)
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	xs[1700] = -1
	xs[2900] = 0

	s := quietSpace(t, WithParallelThreshold(10), WithWorkers(4))
	require.NoError(t, s.Append(basis.NewPolynomial(1)))
	require.NoError(t, s.Append(basis.NewLogarithm(1)))

	m, err := s.BuildDesignMatrix(xs)
	assert.Nil(t, m, "a partially valid matrix must never be returned")

	var de *errors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	assert.Equal(t, 1, de.BasisIndex)
	assert.Equal(t, 1700, de.SampleIndex, "lowest failing sample is reported")
	assert.Equal(t, -1.0, de.X)
}

func TestBuildDesignMatrixEmptyInputs(t *testing.T) {
	empty := quietSpace(t)
	_, err := empty.BuildDesignMatrix([]float64{1, 2})
	assert.True(t, errors.Is(err, errors.ErrEmptySpace))

	_, err = empty.EvaluateRow(1)
	assert.True(t, errors.Is(err, errors.ErrEmptySpace))

	s, err := NewPolynomial(0)
	require.NoError(t, err)
	_, err = s.BuildDesignMatrix(nil)
	var ie *errors.InvalidInputError
	assert.True(t, errors.As(err, &ie))
}

func TestBuildDesignMatrixContextCancelled(t *testing.T) {
	s, err := NewPolynomial(1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.BuildDesignMatrixContext(ctx, []float64{1, 2, 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentReadersOnFrozenSpace(t *testing.T) {
	s, err := NewPolynomial(3)
	require.NoError(t, err)
	s.Freeze()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			x := float64(g)
			row, err := s.EvaluateRow(x)
			assert.NoError(t, err)
			assert.InDelta(t, x*x*x, row.AtVec(3), 1e-12)
		}(g)
	}
	wg.Wait()
}

func TestConcurrentAppendAndFreeze(t *testing.T) {
	s := quietSpace(t)
	require.NoError(t, s.Append(basis.NewPolynomial(0)))

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for g := range errs {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g == 8 {
				s.Freeze()
				return
			}
			errs[g] = s.Append(basis.NewPolynomial(float64(g + 1)))
		}()
	}
	wg.Wait()

	dim := s.Dimension()
	appended := 1
	for g, err := range errs {
		if g == 8 {
			continue
		}
		if err == nil {
			appended++
			continue
		}
		var fe *errors.FrozenError
		require.True(t, errors.As(err, &fe), "expected FrozenError, got %v", err)
		assert.Equal(t, dim, fe.Dimension)
	}
	assert.Equal(t, appended, dim)
}

func TestNewPolynomialRejectsNegativeOrder(t *testing.T) {
	_, err := NewPolynomial(-2)
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestFunctionAccessor(t *testing.T) {
	s, err := NewPolynomial(2)
	require.NoError(t, err)

	f, err := s.Function(1)
	require.NoError(t, err)
	assert.Equal(t, "x^1", f.String())

	_, err = s.Function(5)
	var ie *errors.IndexError
	assert.True(t, errors.As(err, &ie))

	fs := s.Functions()
	fs[0] = basis.NewExponentialDefault()
	assert.Equal(t, "x^0", s.Labels()[0], "Functions returns a copy")
}
