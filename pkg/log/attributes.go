// Package log defines standard attribute keys for fitting operations.
//
// The keys follow a hierarchical naming convention (e.g. "space.dimension",
// "solve.rank") so log records can be filtered by concern.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type, e.g. "LeastSquares".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies one fit run (a UUID assigned by the fitter).
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "op"

	// ComponentKey identifies which package is logging, e.g. "space", "linear".
	ComponentKey = "component"
)

// Data and Function Space
const (
	// SamplesKey is the number of (x, y) samples.
	SamplesKey = "data.samples"

	// FingerprintKey is the xxhash64 fingerprint of the sample set.
	FingerprintKey = "data.fingerprint"

	// SourceKey is the path or name of the sample source.
	SourceKey = "data.source"

	// DimensionKey is the number of basis functions in the space.
	DimensionKey = "space.dimension"

	// BasisKey lists the basis function labels in column order.
	BasisKey = "space.basis"

	// WorkersKey is the number of goroutines used for design-matrix assembly.
	WorkersKey = "space.workers"
)

// Solve and Fit Diagnostics
const (
	// PolicyKey names the singular-system policy ("reject" or "minnorm").
	PolicyKey = "solve.policy"

	// RankKey is the numerical rank of the normal matrix.
	RankKey = "solve.rank"

	// ConditionKey is the estimated condition number of the normal matrix.
	ConditionKey = "solve.condition"

	// EquilibratedKey reports whether columns were scaled before the solve.
	EquilibratedKey = "solve.equilibrated"

	// R2ScoreKey records R² of the fit on its training samples.
	R2ScoreKey = "metrics.r2_score"

	// RSSKey records the residual sum of squares.
	RSSKey = "metrics.rss"

	// RMSEKey records the root mean squared residual on the training samples.
	RMSEKey = "metrics.rmse"

	// AdjustedR2Key records R² corrected for the dimension of the space.
	AdjustedR2Key = "metrics.adjusted_r2"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error and Warning Context
const (
	// ErrorKey carries the error value of a failed operation.
	ErrorKey = "error"

	// ErrorDetailKey carries the structured fields of a typed error.
	ErrorDetailKey = "error.detail"

	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"

	// WarningKey carries a warning value routed from pkg/errors.
	WarningKey = "warning"
)

// Standard attribute values.
const (
	OperationFit               = "fit"
	OperationPredict           = "predict"
	OperationScore             = "score"
	OperationSolve             = "solve"
	OperationBuildDesignMatrix = "build_design_matrix"
	OperationReadSamples       = "read_samples"
	OperationWriteCoefficients = "write_coefficients"
	OperationRenderPlot        = "render_plot"

	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorDomain            = "DOMAIN_ERROR"
	ErrorIndex             = "INDEX_ERROR"
	ErrorSingularSystem    = "SINGULAR_SYSTEM"
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
)
