// Package linear は正規方程式による線形最小二乗法を提供する
//
// 設計行列 M と観測値 y から A = MᵀM, b = Mᵀy を作り、Aβ = b を解く。
// A が特異または悪条件の場合の扱いは Policy で選択する。
package linear

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leslie/pkg/errors"
	"github.com/YuminosukeSato/leslie/pkg/log"
	"github.com/YuminosukeSato/leslie/preprocessing"
)

// Policy は正規行列が特異または悪条件のときの扱い
type Policy int

const (
	// PolicyReject はCholesky分解に失敗するか条件数が上限を超えた場合に
	// SingularSystemError を返す
	PolicyReject Policy = iota
	// PolicyMinNorm はSVDによる擬似逆行列で最小ノルム解を返す
	PolicyMinNorm
)

const (
	// DefaultConditionLimit はPolicyRejectで許容する条件数の上限
	DefaultConditionLimit = 1e12
	// DefaultRcond はPolicyMinNormで最大特異値に対する相対的な打ち切り閾値
	DefaultRcond = 1e-12
)

// String はポリシー名を返す
func (p Policy) String() string {
	switch p {
	case PolicyReject:
		return "reject"
	case PolicyMinNorm:
		return "minnorm"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy はポリシー名を解析する
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "reject", "":
		return PolicyReject, nil
	case "minnorm":
		return PolicyMinNorm, nil
	default:
		return 0, errors.NewValidationError("policy", "must be one of reject, minnorm", s)
	}
}

// Solution は最小二乗問題の解
type Solution struct {
	// Coefficients は基底の列順に並んだ係数 β
	Coefficients *mat.VecDense
	// Rank は正規行列の数値的な階数
	Rank int
	// Condition は正規行列の条件数の推定値（均衡化した場合は均衡化後の値）
	Condition float64
	// Policy は解法に使ったポリシー
	Policy Policy
	// Equilibrated は列均衡化を行ったかどうか
	Equilibrated bool
}

// Solver は正規方程式ソルバー
type Solver struct {
	cfg config
}

// NewSolver は新しいSolverを作成する
//
// 使用例:
//
//	solver := linear.NewSolver(linear.WithPolicy(linear.PolicyMinNorm))
//	sol, err := solver.Solve(M, y)
func NewSolver(opts ...Option) *Solver {
	return &Solver{cfg: newConfig(opts)}
}

// Policy は設定されたポリシーを返す
func (s *Solver) Policy() Policy {
	return s.cfg.policy
}

// Solve は ‖Mβ - y‖² を最小化する β を求める
//
// パラメータ:
//   - M: 設計行列 (n_samples × dimension)
//   - y: 観測値 (n_samples)
//
// 戻り値:
//   - *Solution: 係数と診断情報
//   - error: 入力不正、特異系、数値不安定の場合
func (s *Solver) Solve(M mat.Matrix, y mat.Vector) (*Solution, error) {
	start := time.Now()
	r, c := M.Dims()

	// 入力の検証
	if c == 0 {
		return nil, errors.NewValidationErrorWithCause("dimension", "must be at least 1", c, errors.ErrEmptySpace)
	}
	if r == 0 {
		return nil, errors.NewInvalidInputError("Solver.Solve", "no samples", -1, errors.ErrEmptyData)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError("Solver.Solve", r, y.Len(), 0)
	}
	if err := errors.CheckMatrix("Solver.Solve", M, r, c); err != nil {
		return nil, err
	}
	yData := make([]float64, r)
	for i := range yData {
		yData[i] = y.AtVec(i)
	}
	if err := errors.CheckFiniteInput("Solver.Solve", yData); err != nil {
		return nil, err
	}
	if r < c {
		errors.Warn(errors.NewUnderdeterminedWarning(r, c))
	}

	// 必要なら列を均衡化する
	design := M
	var scaler *preprocessing.ColumnScaler
	if s.cfg.equilibrate {
		scaler = preprocessing.NewColumnScaler()
		scaled, err := scaler.FitTransform(M)
		if err != nil {
			return nil, err
		}
		design = scaled
	}

	// 正規方程式 A = MᵀM, b = Mᵀy
	var a mat.SymDense
	a.SymOuterK(1, design.T())
	if err := errors.CheckMatrix("Solver.Solve", &a, c, c); err != nil {
		return nil, err
	}
	var b mat.VecDense
	b.MulVec(design.T(), mat.NewVecDense(r, yData))

	var (
		sol *Solution
		err error
	)
	switch s.cfg.policy {
	case PolicyReject:
		sol, err = s.solveCholesky(&a, &b)
	case PolicyMinNorm:
		sol, err = s.solveMinNorm(&a, &b)
	default:
		err = errors.NewValidationError("policy", "unknown policy", s.cfg.policy)
	}
	if err != nil {
		s.cfg.logger.Debug("normal equations not solved", err,
			log.OperationKey, log.OperationSolve,
			log.PolicyKey, s.cfg.policy.String(),
			log.DimensionKey, c,
		)
		return nil, err
	}

	if scaler != nil {
		beta, err := scaler.InverseTransformCoefficients(sol.Coefficients)
		if err != nil {
			return nil, err
		}
		sol.Coefficients = beta
		sol.Equilibrated = true
	}
	if err := errors.CheckNumericalStability("Solver.Solve", sol.Coefficients.RawVector().Data); err != nil {
		return nil, err
	}

	s.cfg.logger.Debug("normal equations solved",
		log.OperationKey, log.OperationSolve,
		log.PolicyKey, sol.Policy.String(),
		log.RankKey, sol.Rank,
		log.ConditionKey, sol.Condition,
		log.EquilibratedKey, sol.Equilibrated,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return sol, nil
}

// solveCholesky は A を Cholesky 分解して解く
func (s *Solver) solveCholesky(a *mat.SymDense, b *mat.VecDense) (*Solution, error) {
	n := a.SymmetricDim()

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, errors.NewSingularSystemError("Solver.Solve", n, math.Inf(1), "normal matrix is not positive definite")
	}
	cond := chol.Cond()
	if math.IsNaN(cond) || cond > s.cfg.conditionLimit {
		return nil, errors.NewSingularSystemError("Solver.Solve", n, cond,
			fmt.Sprintf("condition number exceeds limit %g", s.cfg.conditionLimit))
	}

	beta := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(beta, b); err != nil {
		var ce mat.Condition
		if errors.As(err, &ce) {
			return nil, errors.NewSingularSystemError("Solver.Solve", n, float64(ce), "normal matrix is ill-conditioned")
		}
		return nil, errors.NewModelError("Solver.Solve", "cholesky solve failed", err)
	}

	return &Solution{
		Coefficients: beta,
		Rank:         n,
		Condition:    cond,
		Policy:       PolicyReject,
	}, nil
}

// solveMinNorm は A の擬似逆行列で最小ノルム解を求める
//
// A = MᵀM の擬似逆行列と b = Mᵀy の積は M⁺y に等しい。
func (s *Solver) solveMinNorm(a *mat.SymDense, b *mat.VecDense) (*Solution, error) {
	n := a.SymmetricDim()

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.NewSingularSystemError("Solver.Solve", n, math.Inf(1), "SVD did not converge")
	}
	values := svd.Values(nil)
	if values[0] == 0 {
		return nil, errors.NewSingularSystemError("Solver.Solve", n, math.Inf(1), "normal matrix is zero")
	}
	rank := svd.Rank(s.cfg.rcond)
	if rank == 0 {
		return nil, errors.NewSingularSystemError("Solver.Solve", n, math.Inf(1), "numerical rank is zero")
	}

	beta := mat.NewVecDense(n, nil)
	svd.SolveVecTo(beta, b, rank)

	if rank < n {
		errors.Warn(errors.NewRankDeficiencyWarning(rank, n))
	}

	// 打ち切り後に残った特異値の比
	return &Solution{
		Coefficients: beta,
		Rank:         rank,
		Condition:    values[0] / values[rank-1],
		Policy:       PolicyMinNorm,
	}, nil
}
