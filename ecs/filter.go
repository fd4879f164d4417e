package ecs

import (
	"reflect"

	"github.com/bits-and-blooms/bitset"
	"github.com/rotisserie/eris"
)

// Filter selects entities by signature: every required bit must be set and
// no excluded bit may be set. Build it once and reuse it across frames.
//
//	f := ecs.NewFilter(registry)
//	ecs.Require[Position](f)
//	ecs.ExcludeTag[Dead](f)
//	if err := f.Err(); err != nil { ... }
type Filter struct {
	resolver BitResolver
	all      *bitset.BitSet
	none     *bitset.BitSet
	err      error
}

// NewFilter creates an empty filter, which matches every entity.
func NewFilter(resolver BitResolver) *Filter {
	width := resolver.Width()
	return &Filter{
		resolver: resolver,
		all:      bitset.New(width),
		none:     bitset.New(width),
	}
}

// WithBit requires bit.
func (f *Filter) WithBit(bit Bit) *Filter {
	if f.checkBit(bit) {
		f.all.Set(uint(bit))
	}
	return f
}

// WithoutBit excludes bit.
func (f *Filter) WithoutBit(bit Bit) *Filter {
	if f.checkBit(bit) {
		f.none.Set(uint(bit))
	}
	return f
}

// WithComponent requires component type t.
func (f *Filter) WithComponent(t reflect.Type) *Filter {
	if bit, ok := f.resolve(f.resolver.ComponentBit(t)); ok {
		f.WithBit(bit)
	}
	return f
}

// WithoutComponent excludes component type t.
func (f *Filter) WithoutComponent(t reflect.Type) *Filter {
	if bit, ok := f.resolve(f.resolver.ComponentBit(t)); ok {
		f.WithoutBit(bit)
	}
	return f
}

// WithTag requires tag type t.
func (f *Filter) WithTag(t reflect.Type) *Filter {
	if bit, ok := f.resolve(f.resolver.TagBit(t)); ok {
		f.WithBit(bit)
	}
	return f
}

// WithoutTag excludes tag type t.
func (f *Filter) WithoutTag(t reflect.Type) *Filter {
	if bit, ok := f.resolve(f.resolver.TagBit(t)); ok {
		f.WithoutBit(bit)
	}
	return f
}

// Err returns the first error hit while building the filter.
func (f *Filter) Err() error {
	return f.err
}

// MatchesSignature reports whether sig satisfies the filter.
func (f *Filter) MatchesSignature(sig Signature) bool {
	if sig.bits == nil {
		return f.all.None()
	}
	return sig.bits.IsSuperSet(f.all) && sig.bits.IntersectionCardinality(f.none) == 0
}

// matchesSlot is the allocation-free form of MatchesSignature over raw words.
func (f *Filter) matchesSlot(slot []uint64) bool {
	all, none := f.all.Words(), f.none.Words()
	for i, word := range slot {
		if word&all[i] != all[i] || word&none[i] != 0 {
			return false
		}
	}
	return true
}

func (f *Filter) resolve(bit Bit, err error) (Bit, bool) {
	if err != nil {
		if f.err == nil {
			f.err = err
		}
		return 0, false
	}
	return bit, true
}

func (f *Filter) checkBit(bit Bit) bool {
	if uint(bit) >= f.all.Len() {
		if f.err == nil {
			f.err = eris.Wrapf(ErrInvalidBit, "filter bit %d (width %d)", bit, f.all.Len())
		}
		return false
	}
	return true
}

// Require adds component T to the filter's required set.
func Require[T any](f *Filter) *Filter {
	return f.WithComponent(reflect.TypeFor[T]())
}

// Exclude adds component T to the filter's excluded set.
func Exclude[T any](f *Filter) *Filter {
	return f.WithoutComponent(reflect.TypeFor[T]())
}

// RequireTag adds tag T to the filter's required set.
func RequireTag[T any](f *Filter) *Filter {
	return f.WithTag(reflect.TypeFor[T]())
}

// ExcludeTag adds tag T to the filter's excluded set.
func ExcludeTag[T any](f *Filter) *Filter {
	return f.WithoutTag(reflect.TypeFor[T]())
}
