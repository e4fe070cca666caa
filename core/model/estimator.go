// Package model defines the estimator contracts shared by the fitting
// packages and the state they track.
package model

// Fitter は標本 (xs[i], ys[i]) に当てはめ可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを標本で学習させる
	Fit(xs, ys []float64) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は xs における値を予測する
	Predict(xs []float64) ([]float64, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は予測の決定係数 R² を返す
	Score(xs, ys []float64) (float64, error)
}

// Regressor は回帰モデルのインターフェースの組み合わせ
type Regressor interface {
	Fitter
	Predictor
	Scorer

	// IsFitted はFit済みかどうかを返す
	IsFitted() bool
}

// LinearModel は基底の線形結合で表されるモデルのインターフェース
type LinearModel interface {
	Regressor

	// Coefficients は基底の列順に並んだ係数を返す
	Coefficients() []float64
}
