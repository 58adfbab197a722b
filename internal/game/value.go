package game

// Value is a (current, default) pair for any quantity that can be
// temporarily modified and later restored to its baseline: power,
// toughness, tapped state, summoning sickness, land limit.
type Value[T any] struct {
	Current T
	Default T
}

// NewValue returns a Value whose current and default are both v.
func NewValue[T any](v T) Value[T] {
	return Value[T]{Current: v, Default: v}
}

// Reset restores the current value to the default.
func (v *Value[T]) Reset() {
	v.Current = v.Default
}
