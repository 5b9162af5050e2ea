package domain

import (
	"fmt"
	"strconv"
)

type ratioKind int

const (
	ratioUndefined ratioKind = iota // zero buys and zero sells
	ratioFinite
	ratioInfinite // buys without sells
)

// Ratio is a buy-to-sell ratio with explicit degenerate variants instead of
// floating-point Inf/NaN propagation. Convention:
//
//	buys > 0, sells > 0  -> Finite(buys/sells)
//	buys > 0, sells == 0 -> Infinite
//	buys == 0, sells == 0 -> Undefined, compares as 0
type Ratio struct {
	kind  ratioKind
	value float64
}

// RatioOf builds the buy-to-sell ratio for the given counts or volumes.
func RatioOf(buys, sells float64) Ratio {
	switch {
	case buys > 0 && sells == 0:
		return Ratio{kind: ratioInfinite}
	case buys == 0 && sells == 0:
		return Ratio{kind: ratioUndefined}
	default:
		return Ratio{kind: ratioFinite, value: buys / sells}
	}
}

// FiniteRatio builds a finite ratio with a known value.
func FiniteRatio(v float64) Ratio {
	return Ratio{kind: ratioFinite, value: v}
}

// InfiniteRatio builds the infinite (sell-free) ratio.
func InfiniteRatio() Ratio {
	return Ratio{kind: ratioInfinite}
}

// IsInfinite reports whether the ratio is the sell-free sentinel.
func (r Ratio) IsInfinite() bool {
	return r.kind == ratioInfinite
}

// IsUndefined reports whether both sides were zero.
func (r Ratio) IsUndefined() bool {
	return r.kind == ratioUndefined
}

// Value returns the finite value; 0 for Undefined per convention.
// Calling Value on an infinite ratio is a programming error, it returns
// the largest finite float64 to keep arithmetic well-defined.
func (r Ratio) Value() float64 {
	if r.kind == ratioInfinite {
		return maxFiniteRatio
	}
	return r.value
}

const maxFiniteRatio = 1.797693134862315708145274237317043567981e+308

// GreaterThan reports whether the ratio exceeds x. Infinite exceeds
// every finite threshold.
func (r Ratio) GreaterThan(x float64) bool {
	if r.kind == ratioInfinite {
		return true
	}
	return r.Value() > x
}

// LessThan reports whether the ratio is below x. Undefined compares as 0.
func (r Ratio) LessThan(x float64) bool {
	if r.kind == ratioInfinite {
		return false
	}
	return r.Value() < x
}

// Lopsided reports whether the ratio is outside [low, high], the shared
// one-sided-flow heuristic used by the scorer and interval detectors.
func (r Ratio) Lopsided(high, low float64) bool {
	return r.GreaterThan(high) || r.LessThan(low)
}

// String renders the ratio for reports.
func (r Ratio) String() string {
	switch r.kind {
	case ratioInfinite:
		return "inf"
	case ratioUndefined:
		return "0"
	default:
		return strconv.FormatFloat(r.value, 'f', -1, 64)
	}
}

// MarshalJSON serializes Infinite as the string "inf" and Undefined as 0,
// keeping chart consumers free of NaN handling.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.kind == ratioInfinite {
		return []byte(`"inf"`), nil
	}
	return []byte(fmt.Sprintf("%g", r.Value())), nil
}
