package model

// Option is an explicit present/absent wrapper for model values that have no
// natural zero.
type Option[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

// None returns an absent option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether the option holds a value.
func (o Option[T]) IsPresent() bool {
	return o.present
}

// OrElse returns the value, or fallback when absent.
func (o Option[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// MustGet returns the value and panics when absent.
func (o Option[T]) MustGet() T {
	if !o.present {
		panic("model: MustGet on absent option")
	}
	return o.value
}
