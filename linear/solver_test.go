package linear

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leslie/pkg/errors"
	"github.com/YuminosukeSato/leslie/pkg/log"
)

func quietOptions(opts ...Option) []Option {
	logger, _ := log.NewTestLogger(log.LevelError)
	return append([]Option{WithLogger(logger)}, opts...)
}

// captureWarnings は errors.Warn に渡された警告を記録する
func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var (
		mu  sync.Mutex
		got []error
	)
	errors.SetZerologWarnFunc(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, w)
	})
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), got...)
	}
}

// duplicateColumns は2列が同一の設計行列 [x, x] と y = 2x を返す
func duplicateColumns() (*mat.Dense, *mat.VecDense) {
	xs := []float64{1, 2, 3, 4, 5}
	M := mat.NewDense(len(xs), 2, nil)
	y := mat.NewVecDense(len(xs), nil)
	for i, x := range xs {
		M.Set(i, 0, x)
		M.Set(i, 1, x)
		y.SetVec(i, 2*x)
	}
	return M, y
}

func TestSolveExactSystem(t *testing.T) {
	M := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		1, 1, 1,
		1, 2, 4,
		1, 3, 9,
	})
	y := mat.NewVecDense(4, []float64{0, 1, 4, 9})

	for _, p := range []Policy{PolicyReject, PolicyMinNorm} {
		for _, eq := range []bool{false, true} {
			sol, err := NewSolver(quietOptions(WithPolicy(p), WithEquilibration(eq))...).Solve(M, y)
			require.NoError(t, err, "policy=%s equilibrate=%v", p, eq)

			want := mat.NewVecDense(3, []float64{0, 0, 1})
			assert.True(t, mat.EqualApprox(want, sol.Coefficients, 1e-9),
				"policy=%s equilibrate=%v got %v", p, eq, mat.Formatted(sol.Coefficients.T()))
			assert.Equal(t, 3, sol.Rank)
			assert.Equal(t, p, sol.Policy)
			assert.Equal(t, eq, sol.Equilibrated)
			assert.Greater(t, sol.Condition, 1.0)
		}
	}
}

func TestSolveRejectsSingularSystem(t *testing.T) {
	M, y := duplicateColumns()

	_, err := NewSolver(quietOptions()...).Solve(M, y)
	var se *errors.SingularSystemError
	require.True(t, errors.As(err, &se), "expected SingularSystemError, got %v", err)
	assert.Equal(t, 2, se.Dimension)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
}

func TestSolveRejectsIllConditionedSystem(t *testing.T) {
	M := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 1 + 1e-7,
		1, 1 - 1e-7,
	})
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	_, err := NewSolver(quietOptions(WithConditionLimit(1e6))...).Solve(M, y)
	var se *errors.SingularSystemError
	require.True(t, errors.As(err, &se), "expected SingularSystemError, got %v", err)
	assert.Greater(t, se.Condition, 1e6)
}

func TestSolveMinNormOnRankDeficientSystem(t *testing.T) {
	warnings := captureWarnings(t)
	M, y := duplicateColumns()

	sol, err := NewSolver(quietOptions(WithPolicy(PolicyMinNorm))...).Solve(M, y)
	require.NoError(t, err)
	assert.Equal(t, 1, sol.Rank)

	// β_0 + β_1 = 2 の解のうちノルム最小のもの
	want := mat.NewVecDense(2, []float64{1, 1})
	assert.True(t, mat.EqualApprox(want, sol.Coefficients, 1e-9), "got %v", mat.Formatted(sol.Coefficients.T()))

	got := warnings()
	require.Len(t, got, 1)
	var rw *errors.RankDeficiencyWarning
	require.True(t, errors.As(got[0], &rw))
	assert.Equal(t, 1, rw.Rank)
	assert.Equal(t, 2, rw.Dimension)
}

func TestSolveMinNormZeroMatrix(t *testing.T) {
	M := mat.NewDense(3, 2, nil)
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	_, err := NewSolver(quietOptions(WithPolicy(PolicyMinNorm))...).Solve(M, y)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix), "got %v", err)
}

func TestSolveUnderdeterminedWarns(t *testing.T) {
	warnings := captureWarnings(t)
	M := mat.NewDense(1, 2, []float64{1, 1})
	y := mat.NewVecDense(1, []float64{2})

	_, err := NewSolver(quietOptions()...).Solve(M, y)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

	got := warnings()
	require.NotEmpty(t, got)
	var uw *errors.UnderdeterminedWarning
	require.True(t, errors.As(got[0], &uw))
	assert.Equal(t, 1, uw.Samples)
	assert.Equal(t, 2, uw.Dimension)
}

func TestSolvePreconditions(t *testing.T) {
	s := NewSolver(quietOptions()...)

	_, err := s.Solve(&mat.Dense{}, &mat.VecDense{})
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve), "zero dimension: %v", err)
	assert.True(t, errors.Is(err, errors.ErrEmptySpace))

	_, err = s.Solve(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewVecDense(2, []float64{1, 2}))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de), "length mismatch: %v", err)

	_, err = s.Solve(mat.NewDense(2, 1, []float64{1, 2}), mat.NewVecDense(2, []float64{1, math.NaN()}))
	var ie *errors.InvalidInputError
	require.True(t, errors.As(err, &ie), "non-finite y: %v", err)
	assert.Equal(t, 1, ie.Index)

	_, err = s.Solve(mat.NewDense(2, 1, []float64{1, math.Inf(1)}), mat.NewVecDense(2, []float64{1, 2}))
	var ne *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &ne), "non-finite M: %v", err)
}

func TestSolveOverflowingNormalMatrix(t *testing.T) {
	M := mat.NewDense(2, 1, []float64{1e200, 1e200})
	y := mat.NewVecDense(2, []float64{1, 1})

	_, err := NewSolver(quietOptions()...).Solve(M, y)
	var ne *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &ne), "got %v", err)

	// 均衡化すれば正規行列はオーバーフローしない
	sol, err := NewSolver(quietOptions(WithEquilibration(true))...).Solve(M, y)
	require.NoError(t, err)
	assert.InDelta(t, 1e-200, sol.Coefficients.AtVec(0), 1e-210)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"reject", PolicyReject, false},
		{"", PolicyReject, false},
		{"minnorm", PolicyMinNorm, false},
		{"svd", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				assert.Equal(t, tt.in, got.String())
			}
		})
	}

	assert.Equal(t, "Policy(7)", Policy(7).String())
}
