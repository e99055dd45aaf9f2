package vectordb

import "time"

// Condition is the interface all filter conditions implement. Adapters
// convert conditions to their native filter format.
type Condition interface {
	isCondition()
}

// Filter combines conditions with Must (AND), Should (OR) and MustNot (NOT)
// semantics. A nil Filter matches everything.
type Filter struct {
	Must    []Condition
	Should  []Condition
	MustNot []Condition
}

// NewFilter assembles a Filter from clause helpers:
//
//	vectordb.NewFilter(
//	    vectordb.Must(vectordb.NewMatch("format", "jpeg")),
//	    vectordb.MustNot(vectordb.NewMatch("label", "screenshot")),
//	)
func NewFilter(clauses ...func(*Filter)) *Filter {
	f := &Filter{}
	for _, clause := range clauses {
		clause(f)
	}
	return f
}

// Must adds AND conditions: all must match.
func Must(conditions ...Condition) func(*Filter) {
	return func(f *Filter) { f.Must = append(f.Must, conditions...) }
}

// Should adds OR conditions: at least one must match.
func Should(conditions ...Condition) func(*Filter) {
	return func(f *Filter) { f.Should = append(f.Should, conditions...) }
}

// MustNot adds NOT conditions: none may match.
func MustNot(conditions ...Condition) func(*Filter) {
	return func(f *Filter) { f.MustNot = append(f.MustNot, conditions...) }
}

// MatchCondition is an exact-match filter on a payload field. Supported
// value types are string, bool and integers.
type MatchCondition struct {
	Field string
	Value any
}

func (*MatchCondition) isCondition() {}

// NewMatch creates an exact-match condition.
func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

// MatchAnyCondition matches when the field equals any of the values
// (an IN clause). Values must all be strings or all be integers.
type MatchAnyCondition struct {
	Field  string
	Values []any
}

func (*MatchAnyCondition) isCondition() {}

// NewMatchAny creates an IN condition.
func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

// RangeCondition bounds a numeric payload field. Nil bounds are open.
type RangeCondition struct {
	Field string
	Gt    *float64
	Gte   *float64
	Lt    *float64
	Lte   *float64
}

func (*RangeCondition) isCondition() {}

// NewRangeGte creates a field >= value condition.
func NewRangeGte(field string, value float64) *RangeCondition {
	return &RangeCondition{Field: field, Gte: &value}
}

// NewRangeLte creates a field <= value condition.
func NewRangeLte(field string, value float64) *RangeCondition {
	return &RangeCondition{Field: field, Lte: &value}
}

// NewRange creates a min <= field <= max condition.
func NewRange(field string, min, max float64) *RangeCondition {
	return &RangeCondition{Field: field, Gte: &min, Lte: &max}
}

// TimeRangeCondition bounds an RFC 3339 datetime payload field.
// Nil bounds are open.
type TimeRangeCondition struct {
	Field string
	After *time.Time
	Until *time.Time
}

func (*TimeRangeCondition) isCondition() {}

// NewTimeRange creates an after <= field <= until condition. Zero times
// leave the corresponding bound open.
func NewTimeRange(field string, after, until time.Time) *TimeRangeCondition {
	c := &TimeRangeCondition{Field: field}
	if !after.IsZero() {
		c.After = &after
	}
	if !until.IsZero() {
		c.Until = &until
	}
	return c
}
