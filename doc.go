// Package leslie fits linear combinations of one-dimensional basis functions
// to sampled data by ordinary least squares.
//
// A model is y ≈ Σ β_k f_k(x), where the f_k are chosen by the caller from
// polynomial, exponential, logarithmic or custom families and may be mixed
// freely. The coefficients β minimize the residual sum of squares and are
// found through the normal equations.
//
// # Installation
//
//	go get github.com/YuminosukeSato/leslie
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/leslie/basis"
//	    "github.com/YuminosukeSato/leslie/linear"
//	    "github.com/YuminosukeSato/leslie/space"
//	)
//
//	func main() {
//	    fs := space.New()
//	    _ = fs.Append(basis.NewPolynomial(1))
//	    _ = fs.Append(basis.NewLogarithm(1))
//
//	    ls, err := linear.NewLeastSquares(fs)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := ls.Fit([]float64{1, 2, 3, 4}, []float64{2, 6.08, 9.30, 12.16}); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("beta:", ls.Coefficients())
//	}
//
// # Packages
//
//   - basis: basis function families (Polynomial, Exponential, Logarithm, Custom)
//   - space: ordered function spaces and design matrix assembly
//   - linear: normal-equations solver and the LeastSquares fitter
//   - preprocessing: column equilibration of design matrices
//   - metrics: goodness-of-fit metrics (RSS, MSE, RMSE, MAE, R²)
//   - dataio: token-stream sample input and coefficient output
//   - report: plots of fitted models
//   - core/model: estimator contracts and fit state
//   - core/parallel: parallel processing utilities
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// # Singular Systems
//
// By default a singular or ill-conditioned normal matrix is rejected with a
// *errors.SingularSystemError. linear.WithPolicy(linear.PolicyMinNorm) solves
// through the pseudoinverse instead and returns the minimum-norm solution:
//
//	ls, err := linear.NewLeastSquares(fs,
//	    linear.WithPolicy(linear.PolicyMinNorm),
//	    linear.WithEquilibration(true),
//	)
//
// # Performance
//
// Design matrix rows are evaluated in parallel above
// space.DefaultParallelThreshold samples; space.WithWorkers bounds the number
// of goroutines.
package leslie
