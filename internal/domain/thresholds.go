package domain

import (
	"cmp"
	"fmt"
	"math"
)

// Rule maps any measurement strictly greater than Above to Value
type Rule[T cmp.Ordered] struct {
	Above float64
	Value T
}

// Thresholds is an ordered rule chain with a catch-all value.
// Rules are checked highest threshold first and the first one exceeded wins.
type Thresholds[T cmp.Ordered] struct {
	rules    []Rule[T]
	fallback T
}

// NewThresholds validates rules and keeps a private copy. Thresholds must be
// strictly descending and values non-increasing down the list, with fallback
// no higher than the last rule, so the mapping never decreases as the
// measurement grows.
func NewThresholds[T cmp.Ordered](rules []Rule[T], fallback T) (*Thresholds[T], error) {
	for i, r := range rules {
		if math.IsNaN(r.Above) {
			return nil, fmt.Errorf("%w: rule %d has NaN threshold", ErrInvalidRules, i)
		}
		if i == 0 {
			continue
		}
		prev := rules[i-1]
		if r.Above >= prev.Above {
			return nil, fmt.Errorf("%w: rule %d threshold %v not below %v", ErrInvalidRules, i, r.Above, prev.Above)
		}
		if r.Value > prev.Value {
			return nil, fmt.Errorf("%w: rule %d value %v above preceding %v", ErrInvalidRules, i, r.Value, prev.Value)
		}
	}

	if n := len(rules); n > 0 && fallback > rules[n-1].Value {
		return nil, fmt.Errorf("%w: fallback %v above lowest rule value %v", ErrInvalidRules, fallback, rules[n-1].Value)
	}

	owned := make([]Rule[T], len(rules))
	copy(owned, rules)

	return &Thresholds[T]{rules: owned, fallback: fallback}, nil
}

func mustThresholds[T cmp.Ordered](rules []Rule[T], fallback T) *Thresholds[T] {
	t, err := NewThresholds(rules, fallback)
	if err != nil {
		panic(err)
	}
	return t
}

// Classify returns the value of the first rule whose threshold x exceeds.
// Equal to a threshold falls through to the next rule. NaN exceeds nothing
// and maps to the fallback.
func (t *Thresholds[T]) Classify(x float64) T {
	for _, r := range t.rules {
		if x > r.Above {
			return r.Value
		}
	}
	return t.fallback
}

// Rules returns a copy of the ordered rule list
func (t *Thresholds[T]) Rules() []Rule[T] {
	out := make([]Rule[T], len(t.rules))
	copy(out, t.rules)
	return out
}

// Fallback returns the catch-all value
func (t *Thresholds[T]) Fallback() T {
	return t.fallback
}

// Values returns every distinct output, highest first
func (t *Thresholds[T]) Values() []T {
	values := make([]T, 0, len(t.rules)+1)
	for _, r := range t.rules {
		if n := len(values); n == 0 || values[n-1] != r.Value {
			values = append(values, r.Value)
		}
	}
	if n := len(values); n == 0 || values[n-1] != t.fallback {
		values = append(values, t.fallback)
	}
	return values
}
