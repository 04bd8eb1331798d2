// Package compare provides structural equality and hashing over the model.
// A comparer is the gate that decides whether a generator re-emits between
// passes, so every field that shapes generated text takes part.
package compare

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"

	"github.com/okra-platform/forja/internal/model"
)

// ErrNoSensibleHash is the panic value of Hash on comparers that only
// support equality.
var ErrNoSensibleHash = errors.New("compare: no sensible hash for this comparer")

// Comparer is an equality and hash pair for T. Equal values hash equally.
type Comparer[T any] struct {
	Equal func(a, b T) bool
	Hash  func(v T) uint64
}

// EqualityOnly builds a comparer whose Hash panics with ErrNoSensibleHash.
func EqualityOnly[T any](equal func(a, b T) bool) Comparer[T] {
	return Comparer[T]{
		Equal: equal,
		Hash: func(T) uint64 {
			panic(ErrNoSensibleHash)
		},
	}
}

// hasher feeds length-prefixed values into an xxhash digest.
type hasher struct {
	d *xxhash.Digest
}

func newHasher() hasher {
	return hasher{d: xxhash.New()}
}

func (h hasher) u64(v uint64) hasher {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, _ = h.d.Write(b[:])
	return h
}

func (h hasher) str(s string) hasher {
	h.u64(uint64(len(s)))
	_, _ = h.d.WriteString(s)
	return h
}

func (h hasher) boolean(v bool) hasher {
	if v {
		return h.u64(1)
	}
	return h.u64(0)
}

func (h hasher) sum() uint64 {
	return h.d.Sum64()
}

// String compares strings.
var String = Comparer[string]{
	Equal: func(a, b string) bool { return a == b },
	Hash:  func(v string) uint64 { return xxhash.Sum64String(v) },
}

// Visibility compares visibilities.
var Visibility = Comparer[model.Visibility]{
	Equal: func(a, b model.Visibility) bool { return a == b },
	Hash:  func(v model.Visibility) uint64 { return newHasher().u64(uint64(v)).sum() },
}

// SliceOf compares ordered slices element-wise. Nil and empty are equal.
func SliceOf[T any](c Comparer[T]) Comparer[[]T] {
	return Comparer[[]T]{
		Equal: func(a, b []T) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if !c.Equal(a[i], b[i]) {
					return false
				}
			}
			return true
		},
		Hash: func(v []T) uint64 {
			h := newHasher().u64(uint64(len(v)))
			for _, e := range v {
				h.u64(c.Hash(e))
			}
			return h.sum()
		},
	}
}

// OptionOf compares options: both absent, or both present and equal.
func OptionOf[T any](c Comparer[T]) Comparer[model.Option[T]] {
	return Comparer[model.Option[T]]{
		Equal: func(a, b model.Option[T]) bool {
			av, aok := a.Get()
			bv, bok := b.Get()
			if aok != bok {
				return false
			}
			return !aok || c.Equal(av, bv)
		},
		Hash: func(v model.Option[T]) uint64 {
			val, ok := v.Get()
			h := newHasher().boolean(ok)
			if ok {
				h.u64(c.Hash(val))
			}
			return h.sum()
		},
	}
}

// Strings compares ordered string slices.
var Strings = SliceOf(String)

// OptionalString compares optional strings such as default values.
var OptionalString = OptionOf(String)
