// Package preprocessing は設計行列の前処理を提供する
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/leslie/core/model"
	"github.com/YuminosukeSato/leslie/pkg/errors"
)

var _ model.Transformer = (*ColumnScaler)(nil)

// ColumnScaler は設計行列の各列をユークリッドノルムで割る列均衡化スケーラー
//
// 多項式基底のように列のスケールが大きく異なる場合、正規行列 MᵀM の
// 条件数は列スケールの比の二乗で悪化する。列を単位ノルムに揃えてから
// 解き、係数を元のスケールに戻すことで同じ解をより安定に得られる。
type ColumnScaler struct {
	state *model.StateManager

	// Scale は各列のノルム（ゼロ列は1）
	Scale []float64
}

// NewColumnScaler は新しいColumnScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewColumnScaler()
//	err := scaler.Fit(M)
//	MScaled, err := scaler.Transform(M)
//	// MScaled で解いた係数 c を元に戻す
//	beta, err := scaler.InverseTransformCoefficients(c)
func NewColumnScaler() *ColumnScaler {
	return &ColumnScaler{state: model.NewStateManager()}
}

// Fit は各列のノルムを計算する
//
// パラメータ:
//   - M: 設計行列 (n_samples × dimension)
//
// 戻り値:
//   - error: 空の行列の場合
func (s *ColumnScaler) Fit(M mat.Matrix) error {
	r, c := M.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("ColumnScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	col := make([]float64, r)
	s.Scale = make([]float64, c)
	for j := 0; j < c; j++ {
		mat.Col(col, j, M)
		norm := floats.Norm(col, 2)
		// ゼロ列はそのまま残し、特異性の判定を解法側に任せる
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			norm = 1
		}
		s.Scale[j] = norm
	}

	s.state.SetFitted(c, r)
	return nil
}

// Transform は各列をノルムで割った新しい行列を返す
func (s *ColumnScaler) Transform(M mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("ColumnScaler", "Transform"); err != nil {
		return nil, err
	}
	r, c := M.Dims()
	if c != len(s.Scale) {
		return nil, errors.NewDimensionError("ColumnScaler.Transform", len(s.Scale), c, 1)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return v / s.Scale[j]
	}, M)
	return out, nil
}

// FitTransform はFitとTransformを続けて実行する
func (s *ColumnScaler) FitTransform(M mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(M); err != nil {
		return nil, err
	}
	return s.Transform(M)
}

// InverseTransformCoefficients は均衡化された行列で求めた係数を元のスケールに戻す
//
// M = Mₛ D なので Mₛ c = M D⁻¹ c となり、β = D⁻¹ c。
func (s *ColumnScaler) InverseTransformCoefficients(c mat.Vector) (*mat.VecDense, error) {
	if err := s.state.RequireFitted("ColumnScaler", "InverseTransformCoefficients"); err != nil {
		return nil, err
	}
	if c.Len() != len(s.Scale) {
		return nil, errors.NewDimensionError("ColumnScaler.InverseTransformCoefficients", len(s.Scale), c.Len(), 0)
	}

	beta := mat.NewVecDense(c.Len(), nil)
	for j := 0; j < c.Len(); j++ {
		beta.SetVec(j, c.AtVec(j)/s.Scale[j])
	}
	return beta, nil
}

// IsFitted はFit済みかどうかを返す
func (s *ColumnScaler) IsFitted() bool {
	return s.state.IsFitted()
}
