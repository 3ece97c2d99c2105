// Package filter models payload pre-filters for similarity search.
// The vector database applies these before nearest-neighbor selection, so
// the returned top-k set is already filtered.
package filter

import "fmt"

// MaxConditions bounds the number of conditions in one expression.
const MaxConditions = 16

// Condition is a single filter clause: either an exact tag match or a
// numeric range over a payload field.
type Condition struct {
	key       string
	match     string
	rangeExpr *Range
}

// NewMatch creates an exact match condition on a tag field.
func NewMatch(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: value}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if r.gte == nil && r.lte == nil {
		return Condition{}, fmt.Errorf("range for key %q needs at least one bound", key)
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// Key returns the payload field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Range returns the numeric range.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is an inclusive numeric interval; a nil bound is unbounded.
type Range struct {
	gte *float64
	lte *float64
}

// AtLeast returns a Range with only a lower inclusive bound.
func AtLeast(v float64) Range {
	return Range{gte: &v}
}

// Between returns a Range with both inclusive bounds.
func Between(lo, hi float64) Range {
	return Range{gte: &lo, lte: &hi}
}

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Expression is a conjunction of conditions (every condition must hold).
type Expression struct {
	conditions []Condition
}

// NewExpression validates and creates an Expression.
func NewExpression(conditions ...Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{conditions: conditions}, nil
}

// Conditions returns the conjunction members.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }
