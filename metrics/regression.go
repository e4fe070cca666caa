// Package metrics は当てはめの良さを評価する回帰指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

// rawPair は入力を検証し、両ベクトルの要素をスライスで返す
func rawPair(op string, yTrue, yPred mat.Vector) ([]float64, []float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return vecData(yTrue), vecData(yPred), nil
}

func vecData(v mat.Vector) []float64 {
	if rv, ok := v.(mat.RawVectorer); ok {
		raw := rv.RawVector()
		if raw.Inc == 1 {
			return raw.Data[:v.Len()]
		}
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// RSS は残差平方和（Residual Sum of Squares）を計算する
func RSS(yTrue, yPred mat.Vector) (float64, error) {
	a, b, err := rawPair("RSS", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	d := floats.Distance(a, b, 2)
	return d * d, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	rss, err := RSS(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return rss / float64(yTrue.Len()), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	a, b, err := rawPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Distance(a, b, 1) / float64(len(a)), nil
}

// R2Score は決定係数（R²）を計算する
//
// yTrue の分散がゼロの場合、R² は定義されないため ValueError を返す。
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	a, b, err := rawPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	mean := stat.Mean(a, nil)
	var tss float64
	for _, v := range a {
		tss += (v - mean) * (v - mean)
	}
	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}

	d := floats.Distance(a, b, 2)
	return 1 - d*d/tss, nil
}

// AdjustedR2Score は基底の次元 p で補正した決定係数を計算する
//
// 自由度 n-p が正でない場合は ValueError を返す。
func AdjustedR2Score(yTrue, yPred mat.Vector, p int) (float64, error) {
	r2, err := R2Score(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	n := yTrue.Len()
	if p < 1 || n-p <= 0 {
		return 0, errors.NewValueError("AdjustedR2Score", "no residual degrees of freedom")
	}
	// 定数項を含む基底を想定し、自由度は n-p
	return 1 - (1-r2)*float64(n-1)/float64(n-p), nil
}
