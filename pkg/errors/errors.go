// Package errors はleslie全体のエラーハンドリングと警告システムを提供します。
// 最小二乗フィットの各段階（入力、基底関数の評価、正規方程式の求解）で発生する
// 失敗を、呼び出し側が errors.As で区別できる構造化エラーとして表現します。
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// InvalidInputError はサンプル列が不正な場合のエラーです。
// 奇数個のトークン、空のデータ、数値として解釈できないトークンなど。
type InvalidInputError struct {
	Op     string
	Reason string
	// Index は問題のあるトークンまたはサンプルの位置です。特定できない場合は -1。
	Index int
	Err   error
}

func (e *InvalidInputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("leslie: %s: invalid input at index %d: %s", e.Op, e.Index, e.Reason)
	}
	return fmt.Sprintf("leslie: %s: invalid input: %s", e.Op, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

func (e *InvalidInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("op", e.Op).
		Str("reason", e.Reason).
		Int("index", e.Index).
		Str("type", "InvalidInputError")
}

// NewInvalidInputError は新しいInvalidInputErrorを作成し、スタックトレースを付与します。
// index が不明な場合は -1 を渡します。cause は nil でも構いません。
func NewInvalidInputError(op, reason string, index int, cause error) error {
	err := &InvalidInputError{Op: op, Reason: reason, Index: index, Err: cause}
	return errors.WithStack(err)
}

// DomainError は基底関数が定義域の外で評価された場合のエラーです。
// 例えば、対数基底に非正の引数を渡した場合など。
type DomainError struct {
	Basis  string
	X      float64
	Reason string
	// BasisIndex と SampleIndex は関数空間の中で評価された場合に設定されます。未設定は -1。
	BasisIndex  int
	SampleIndex int
}

func (e *DomainError) Error() string {
	loc := ""
	if e.BasisIndex >= 0 {
		loc += fmt.Sprintf(" (basis %d", e.BasisIndex)
		if e.SampleIndex >= 0 {
			loc += fmt.Sprintf(", sample %d", e.SampleIndex)
		}
		loc += ")"
	}
	return fmt.Sprintf("leslie: %s undefined at x=%g%s: %s", e.Basis, e.X, loc, e.Reason)
}

func (e *DomainError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("basis", e.Basis).
		Float64("x", e.X).
		Str("reason", e.Reason).
		Int("basis_index", e.BasisIndex).
		Int("sample_index", e.SampleIndex).
		Str("type", "DomainError")
}

// NewDomainError は新しいDomainErrorを作成し、スタックトレースを付与します。
func NewDomainError(basis string, x float64, reason string) error {
	err := &DomainError{Basis: basis, X: x, Reason: reason, BasisIndex: -1, SampleIndex: -1}
	return errors.WithStack(err)
}

// WithDomainLocation はerrがDomainErrorを含む場合、基底とサンプルの位置を付与した
// 新しいエラーを返します。それ以外のエラーはそのまま返します。
func WithDomainLocation(err error, basisIndex, sampleIndex int) error {
	var de *DomainError
	if !errors.As(err, &de) {
		return err
	}
	located := *de
	located.BasisIndex = basisIndex
	located.SampleIndex = sampleIndex
	return errors.WithStack(&located)
}

// IndexError は基底関数のインデックスが範囲外の場合のエラーです。
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("leslie: %s: index %d out of range [0, %d)", e.Op, e.Index, e.Len)
}

func (e *IndexError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("op", e.Op).
		Int("index", e.Index).
		Int("len", e.Len).
		Str("type", "IndexError")
}

// NewIndexError は新しいIndexErrorを作成し、スタックトレースを付与します。
func NewIndexError(op string, index, length int) error {
	err := &IndexError{Op: op, Index: index, Len: length}
	return errors.WithStack(err)
}

// SingularSystemError は正規方程式が選択されたポリシーの下で解けない場合のエラーです。
type SingularSystemError struct {
	Op        string
	Dimension int
	// Condition は推定条件数です。計算できなかった場合は +Inf。
	Condition float64
	Reason    string
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("leslie: %s: singular %dx%d normal matrix (condition %.3g): %s",
		e.Op, e.Dimension, e.Dimension, e.Condition, e.Reason)
}

// Unwrap は ErrSingularMatrix を返し、errors.Is で判定できるようにします。
func (e *SingularSystemError) Unwrap() error {
	return ErrSingularMatrix
}

func (e *SingularSystemError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("op", e.Op).
		Int("dimension", e.Dimension).
		Float64("condition", e.Condition).
		Str("reason", e.Reason).
		Str("type", "SingularSystemError")
}

// NewSingularSystemError は新しいSingularSystemErrorを作成し、スタックトレースを付与します。
func NewSingularSystemError(op string, dimension int, condition float64, reason string) error {
	err := &SingularSystemError{Op: op, Dimension: dimension, Condition: condition, Reason: reason}
	return errors.WithStack(err)
}

// FrozenError は評価開始後の関数空間に基底関数を追加しようとした場合のエラーです。
type FrozenError struct {
	Op        string
	Dimension int
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("leslie: %s: function space of dimension %d is frozen", e.Op, e.Dimension)
}

// Unwrap は ErrFrozen を返します。
func (e *FrozenError) Unwrap() error {
	return ErrFrozen
}

// NewFrozenError は新しいFrozenErrorを作成し、スタックトレースを付与します。
func NewFrozenError(op string, dimension int) error {
	err := &FrozenError{Op: op, Dimension: dimension}
	return errors.WithStack(err)
}
