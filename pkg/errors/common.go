package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Sentinel errors. Structured errors unwrap to these so callers can use Is.
var (
	ErrEmptyData      = New("empty data")
	ErrOddTokenCount  = New("odd token count")
	ErrSingularMatrix = New("singular matrix")
	ErrFrozen         = New("function space is frozen")
	ErrEmptySpace     = New("function space has no basis functions")
)

// NotFittedError は Fit 前に Predict や Score が呼ばれた場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("leslie: %s.%s called before Fit", e.ModelName, e.Method)
}

func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "NotFittedError").
		Str("model", e.ModelName).
		Str("method", e.Method)
}

// DimensionError は長さや列数が一致しない場合のエラーです。Axis は 0 が行、1 が列。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

func (e *DimensionError) Error() string {
	what := "row count"
	if e.Axis != 0 {
		what = "column count"
	}
	return fmt.Sprintf("leslie: %s: %s mismatch: want %d, got %d", e.Op, what, e.Expected, e.Got)
}

func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "DimensionError").
		Str("op", e.Op).
		Int("axis", e.Axis).
		Int("expected", e.Expected).
		Int("got", e.Got)
}

// ValidationError は設定値やオプションが不正な場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
	Err       error
}

func NewValidationError(param, reason string, value interface{}) error {
	return NewValidationErrorWithCause(param, reason, value, nil)
}

// NewValidationErrorWithCause attaches a sentinel such as ErrEmptySpace.
func NewValidationErrorWithCause(param, reason string, value interface{}, cause error) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value, Err: cause})
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("leslie: invalid %s: %s (got %v)", e.ParamName, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "ValidationError").
		Str("param", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value)
}

// ValueError は指標計算などで値そのものが扱えない場合のエラーです。
type ValueError struct {
	Op      string
	Message string
}

func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("leslie: %s: %s", e.Op, e.Message)
}

// ModelError は前処理などのモデル操作の失敗を包みます。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

func (e *ModelError) Error() string {
	msg := fmt.Sprintf("leslie: %s: %s", e.Op, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelError) Unwrap() error { return e.Err }

// NumericalInstabilityError は計算結果に NaN や Inf が現れた場合のエラーです。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
}

// 表示する値の上限
const maxShownValues = 5

func NewNumericalInstabilityError(operation string, values []float64) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values})
}

func (e *NumericalInstabilityError) Error() string {
	shown := make([]string, 0, maxShownValues+1)
	for i, v := range e.Values {
		if i == maxShownValues {
			shown = append(shown, "...")
			break
		}
		shown = append(shown, fmt.Sprintf("%.6g", v))
	}
	return fmt.Sprintf("leslie: %s produced non-finite values [%s]", e.Operation, strings.Join(shown, ", "))
}

func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "NumericalInstabilityError").
		Str("op", e.Operation).
		Floats64("values", e.Values)
}

// Is, As, Wrap などは cockroachdb/errors への薄いラッパーです。
// 呼び出し側は標準の errors を import しません。

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

func WithStack(err error) error {
	return errors.WithStack(err)
}
