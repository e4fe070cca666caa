package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/rs/zerolog"
)

// warnRouter delivers non-fatal conditions raised during a fit. A structured
// sink registered by pkg/log takes precedence over the fallback handler.
type warnRouter struct {
	mu         sync.Mutex
	fallback   func(error)
	structured func(error)
}

var router = &warnRouter{
	fallback: func(w error) { log.Printf("leslie: warning: %v", w) },
}

func (r *warnRouter) emit(w error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.structured != nil:
		r.structured(w)
	case r.fallback != nil:
		r.fallback(w)
	}
}

// SetWarningHandler は構造化ロガー未設定時に使う警告ハンドラを差し替えます。
// nil を渡すと警告は捨てられます。
func SetWarningHandler(handler func(w error)) {
	router.mu.Lock()
	defer router.mu.Unlock()
	router.fallback = handler
}

// SetZerologWarnFunc は pkg/log から構造化出力の関数を登録します。
// pkg/log がこのパッケージをimportしているため、逆向きは関数で受け取ります。
// nil で登録を解除します。
func SetZerologWarnFunc(fn func(warning error)) {
	router.mu.Lock()
	defer router.mu.Unlock()
	router.structured = fn
}

// Warn は警告を配送します。フィット自体は続行されます。
func Warn(w error) {
	router.emit(w)
}

// UnderdeterminedWarning はサンプル数が基底関数の数より少ない場合の警告です。
// 求解自体は拒否されませんが、係数は一意に定まりません。
type UnderdeterminedWarning struct {
	Samples   int
	Dimension int
}

// NewUnderdeterminedWarning returns the warning for samples < dimension.
func NewUnderdeterminedWarning(samples, dimension int) *UnderdeterminedWarning {
	return &UnderdeterminedWarning{Samples: samples, Dimension: dimension}
}

func (w *UnderdeterminedWarning) Error() string {
	return fmt.Sprintf("only %d samples for %d basis functions; the fit is underdetermined", w.Samples, w.Dimension)
}

func (w *UnderdeterminedWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("type", "UnderdeterminedWarning").
		Int("samples", w.Samples).
		Int("dimension", w.Dimension)
}

// RankDeficiencyWarning は正規方程式の行列が階数落ちしており、
// 最小ノルム解にフォールバックした場合の警告です。
type RankDeficiencyWarning struct {
	Rank      int
	Dimension int
}

// NewRankDeficiencyWarning returns the warning for a minimum-norm solve of rank < dimension.
func NewRankDeficiencyWarning(rank, dimension int) *RankDeficiencyWarning {
	return &RankDeficiencyWarning{Rank: rank, Dimension: dimension}
}

func (w *RankDeficiencyWarning) Error() string {
	return fmt.Sprintf("normal matrix has rank %d < %d; returning the minimum-norm solution", w.Rank, w.Dimension)
}

func (w *RankDeficiencyWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("type", "RankDeficiencyWarning").
		Int("rank", w.Rank).
		Int("dimension", w.Dimension)
}
