// Package optional distinguishes "field not supplied" from "field set to its
// zero value" in partial-update payloads.
package optional

// Value wraps a field that may be absent from an update payload.
// The zero Value is absent.
type Value[T any] struct {
	value   T
	present bool
}

// Of returns a present Value.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, present: true}
}

// Absent returns an absent Value. Equivalent to the zero value, spelled out
// for readability at call sites.
func Absent[T any]() Value[T] {
	return Value[T]{}
}

// Present reports whether the field was supplied.
func (v Value[T]) Present() bool { return v.present }

// Get returns the wrapped value and whether it was supplied.
func (v Value[T]) Get() (T, bool) { return v.value, v.present }

// Or returns the wrapped value when present, otherwise fallback.
func (v Value[T]) Or(fallback T) T {
	if v.present {
		return v.value
	}
	return fallback
}

// FromPtr converts the nil-means-absent pointer convention used by JSON
// payloads into a Value.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Value[T]{}
	}
	return Of(*p)
}
