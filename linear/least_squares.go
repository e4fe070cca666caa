package linear

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leslie/core/model"
	"github.com/YuminosukeSato/leslie/metrics"
	"github.com/YuminosukeSato/leslie/pkg/errors"
	"github.com/YuminosukeSato/leslie/pkg/log"
	"github.com/YuminosukeSato/leslie/space"
)

const modelName = "LeastSquares"

var _ model.LinearModel = (*LeastSquares)(nil)

// ExportFormatVersion はExportJSONの出力形式のバージョン
const ExportFormatVersion = "1.0"

// LeastSquares は関数空間上の線形最小二乗フィッター
//
// 関数空間の基底 f_0, ..., f_{m-1} に対し、
// y ≈ Σ β_k f_k(x) となる係数 β を求める。
type LeastSquares struct {
	state  *model.StateManager
	space  *space.FunctionSpace
	solver *Solver
	logger log.Logger
	id     string

	mu       sync.RWMutex
	solution *Solution
	r2       *float64
	adjR2    *float64
	rss      float64
	rmse     float64
}

// NewLeastSquares は関数空間 fs 上のフィッターを作成する
//
// 使用例:
//
//	fs, _ := space.NewPolynomial(2)
//	ls, err := linear.NewLeastSquares(fs)
//	err = ls.Fit(xs, ys)
//	beta := ls.Coefficients()
func NewLeastSquares(fs *space.FunctionSpace, opts ...Option) (*LeastSquares, error) {
	if fs == nil {
		return nil, errors.NewValidationError("space", "must not be nil", nil)
	}
	solver := NewSolver(opts...)
	id := uuid.NewString()
	return &LeastSquares{
		state:  model.NewStateManager(),
		space:  fs,
		solver: solver,
		logger: solver.cfg.logger.With(log.ModelNameKey, modelName, log.EstimatorIDKey, id),
		id:     id,
	}, nil
}

// ID はこのフィッターを識別するUUIDを返す
func (ls *LeastSquares) ID() string {
	return ls.id
}

// Space は関数空間を返す
func (ls *LeastSquares) Space() *space.FunctionSpace {
	return ls.space
}

// Fit は標本 (xs[i], ys[i]) に最小二乗で当てはめる
//
// 最初のFitで関数空間は凍結される。同じ標本で再実行すると同じ係数が得られる。
func (ls *LeastSquares) Fit(xs, ys []float64) error {
	return ls.FitContext(context.Background(), xs, ys)
}

// FitContext はキャンセル可能なFit
func (ls *LeastSquares) FitContext(ctx context.Context, xs, ys []float64) error {
	start := time.Now()

	// 入力の検証
	if len(xs) != len(ys) {
		return errors.NewDimensionError("LeastSquares.Fit", len(xs), len(ys), 0)
	}
	if len(xs) == 0 {
		return errors.NewInvalidInputError("LeastSquares.Fit", "no samples", -1, errors.ErrEmptyData)
	}
	if err := errors.CheckFiniteInput("LeastSquares.Fit", xs); err != nil {
		return err
	}
	if err := errors.CheckFiniteInput("LeastSquares.Fit", ys); err != nil {
		return err
	}

	M, err := ls.space.BuildDesignMatrixContext(ctx, xs)
	if err != nil {
		ls.logger.Error("fit failed", err, log.OperationKey, log.OperationFit, log.SamplesKey, len(xs))
		return err
	}

	y := mat.NewVecDense(len(ys), append([]float64(nil), ys...))
	sol, err := ls.solver.Solve(M, y)
	if err != nil {
		ls.logger.Error("fit failed", err, log.OperationKey, log.OperationFit, log.SamplesKey, len(xs))
		return err
	}

	// 学習データ上の当てはまり
	var fitted mat.VecDense
	fitted.MulVec(M, sol.Coefficients)
	rss, err := metrics.RSS(y, &fitted)
	if err != nil {
		return err
	}
	rmse, err := metrics.RMSE(y, &fitted)
	if err != nil {
		return err
	}
	_, dim := M.Dims()

	// 定数目的変数や自由度0では未定義なので省略する
	var r2, adjR2 *float64
	if v, err := metrics.R2Score(y, &fitted); err == nil {
		r2 = &v
	}
	if v, err := metrics.AdjustedR2Score(y, &fitted, dim); err == nil {
		adjR2 = &v
	}

	ls.mu.Lock()
	ls.solution = sol
	ls.rss = rss
	ls.rmse = rmse
	ls.r2 = r2
	ls.adjR2 = adjR2
	ls.mu.Unlock()

	ls.state.SetFitted(dim, len(xs))

	fields := []any{
		log.OperationKey, log.OperationFit,
		log.SamplesKey, len(xs),
		log.DimensionKey, dim,
		log.PolicyKey, sol.Policy.String(),
		log.RankKey, sol.Rank,
		log.ConditionKey, sol.Condition,
		log.RSSKey, rss,
		log.RMSEKey, rmse,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if r2 != nil {
		fields = append(fields, log.R2ScoreKey, *r2)
	}
	if adjR2 != nil {
		fields = append(fields, log.AdjustedR2Key, *adjR2)
	}
	ls.logger.Info("fit completed", fields...)
	return nil
}

// Predict は学習した係数で xs における値を予測する
func (ls *LeastSquares) Predict(xs []float64) ([]float64, error) {
	if err := ls.state.RequireFitted(modelName, "Predict"); err != nil {
		return nil, err
	}
	M, err := ls.space.BuildDesignMatrix(xs)
	if err != nil {
		return nil, err
	}

	var pred mat.VecDense
	pred.MulVec(M, ls.Solution().Coefficients)
	return pred.RawVector().Data, nil
}

// Score は (xs, ys) に対する決定係数（R²）を計算する
func (ls *LeastSquares) Score(xs, ys []float64) (float64, error) {
	if err := ls.state.RequireFitted(modelName, "Score"); err != nil {
		return 0, err
	}
	if len(xs) != len(ys) {
		return 0, errors.NewDimensionError("LeastSquares.Score", len(xs), len(ys), 0)
	}
	pred, err := ls.Predict(xs)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(mat.NewVecDense(len(ys), append([]float64(nil), ys...)), mat.NewVecDense(len(pred), pred))
}

// Coefficients は係数 β のコピーを返す。未学習の場合はnil
func (ls *LeastSquares) Coefficients() []float64 {
	sol := ls.Solution()
	if sol == nil {
		return nil
	}
	return append([]float64(nil), sol.Coefficients.RawVector().Data...)
}

// Solution は直近のFitの解を返す。未学習の場合はnil
func (ls *LeastSquares) Solution() *Solution {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.solution
}

// IsFitted はFit済みかどうかを返す
func (ls *LeastSquares) IsFitted() bool {
	return ls.state.IsFitted()
}

// Export はJSONエクスポートの形式
type Export struct {
	Model         string      `json:"model"`
	FormatVersion string      `json:"format_version"`
	ID            string      `json:"id"`
	Basis         []string    `json:"basis"`
	Coefficients  []float64   `json:"coefficients"`
	Policy        string      `json:"policy"`
	Rank          int         `json:"rank"`
	Condition     *float64    `json:"condition,omitempty"`
	Equilibrated  bool        `json:"equilibrated"`
	RSS           float64     `json:"rss"`
	RMSE          float64     `json:"rmse"`
	R2Score       *float64    `json:"r2_score,omitempty"`
	AdjustedR2    *float64    `json:"adjusted_r2,omitempty"`
	State         model.State `json:"state"`
}

// ExportJSON は学習結果をJSON形式で書き出す
//
// パラメータ:
//   - w: 出力先Writer
//
// 戻り値:
//   - error: 未学習またはエンコード失敗時のエラー
func (ls *LeastSquares) ExportJSON(w io.Writer) error {
	if err := ls.state.RequireFitted(modelName, "ExportJSON"); err != nil {
		return err
	}

	ls.mu.RLock()
	sol, rss, rmse, r2, adjR2 := ls.solution, ls.rss, ls.rmse, ls.r2, ls.adjR2
	ls.mu.RUnlock()

	out := Export{
		Model:         modelName,
		FormatVersion: ExportFormatVersion,
		ID:            ls.id,
		Basis:         ls.space.Labels(),
		Coefficients:  append([]float64(nil), sol.Coefficients.RawVector().Data...),
		Policy:        sol.Policy.String(),
		Rank:          sol.Rank,
		Equilibrated:  sol.Equilibrated,
		RSS:           rss,
		RMSE:          rmse,
		R2Score:       r2,
		AdjustedR2:    adjR2,
		State:         ls.state.GetState(),
	}
	// JSONはInfを表現できない
	if !math.IsInf(sol.Condition, 0) && !math.IsNaN(sol.Condition) {
		cond := sol.Condition
		out.Condition = &cond
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}
