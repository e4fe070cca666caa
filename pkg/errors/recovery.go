package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// PanicError は回復したpanicをエラーとして表現します。
// Custom基底のルールはワーカーgoroutine内で呼ばれるため、
// panicはプロセスを落とさずフィット要求のエラーとして返されます。
type PanicError struct {
	Operation  string
	PanicValue interface{}
	StackTrace string
}

// NewPanicError は現在のスタックを記録したPanicErrorを作成します。
func NewPanicError(operation string, value interface{}) *PanicError {
	return &PanicError{
		Operation:  operation,
		PanicValue: value,
		StackTrace: string(debug.Stack()),
	}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap はpanic値がerrorの場合にそれを返します。
func (e *PanicError) Unwrap() error {
	err, _ := e.PanicValue.(error)
	return err
}

// MarshalZerologObject はzerologのイベントにpanic情報を追加します。
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("type", "PanicError").
		Str("operation", e.Operation).
		Str("panic", fmt.Sprint(e.PanicValue))
}

// Recover はdeferで呼び出し、panicを*errにエラーとして格納します。
// 既にエラーが設定されている場合は、そのエラーを保持したまま包みます。
//
//	func evaluate() (err error) {
//		defer errors.Recover(&err, "basis.custom")
//		...
//	}
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = Wrapf(*err, "panic in %s: %v", operation, r)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute はfnを実行し、panicをPanicErrorに変換して返します。
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
