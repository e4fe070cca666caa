package model

import "gonum.org/v1/gonum/mat"

// Transformer は設計行列の変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(M mat.Matrix) error

	// Transform は行列を変換する
	Transform(M mat.Matrix) (*mat.Dense, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(M mat.Matrix) (*mat.Dense, error)
}
