package ecs

import "github.com/bits-and-blooms/bitset"

// Signature is a read-only view of an entity's membership bits.
//
// A Signature returned by EntityManager.Signature shares storage with the
// manager and is only valid until the next mutating call on that manager.
// Use Clone to keep a copy.
type Signature struct {
	bits *bitset.BitSet
}

// newSignatureView wraps one entity slot. The slot must be capacity-limited
// so the view can never write into a neighbouring slot.
func newSignatureView(width uint, words []uint64) Signature {
	return Signature{bits: bitset.FromWithLength(width, words)}
}

// Has reports whether bit is set.
func (s Signature) Has(bit Bit) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(bit))
}

// Len is the signature width in bits.
func (s Signature) Len() uint {
	if s.bits == nil {
		return 0
	}
	return s.bits.Len()
}

// Count is the number of set bits.
func (s Signature) Count() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// IsZero reports whether no bit is set.
func (s Signature) IsZero() bool {
	return s.Count() == 0
}

// Equal reports whether s and o have the same width and the same bits set.
func (s Signature) Equal(o Signature) bool {
	if s.bits == nil || o.bits == nil {
		return s.IsZero() && o.IsZero() && s.Len() == o.Len()
	}
	return s.bits.Equal(o.bits)
}

// Contains reports whether every bit set in o is also set in s.
func (s Signature) Contains(o Signature) bool {
	if o.bits == nil {
		return true
	}
	if s.bits == nil {
		return o.IsZero()
	}
	return s.bits.IsSuperSet(o.bits)
}

// Bits returns the set bits in ascending order.
func (s Signature) Bits() []Bit {
	if s.bits == nil {
		return nil
	}
	out := make([]Bit, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, Bit(i))
	}
	return out
}

// Clone returns a Signature that owns its storage.
func (s Signature) Clone() Signature {
	if s.bits == nil {
		return Signature{}
	}
	return Signature{bits: s.bits.Clone()}
}

func (s Signature) String() string {
	if s.bits == nil {
		return "{}"
	}
	return s.bits.String()
}
