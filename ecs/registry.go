package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// BitResolver maps component and tag types to fixed signature bits.
// The same type must always resolve to the same bit, and distinct types
// within a namespace must resolve to distinct bits.
type BitResolver interface {
	ComponentBit(t reflect.Type) (Bit, error)
	TagBit(t reflect.Type) (Bit, error)
	// Width is the number of bits in every signature.
	Width() uint
}

// SignatureRegistry is the standard BitResolver. Component bits occupy
// [0, maxComponents) and tag bits occupy [maxComponents, maxComponents+maxTags),
// so the signature width is fixed when the registry is created and bits never
// move when more types are registered later.
//
// Register all types at startup, before creating any EntityManager that
// uses the registry.
type SignatureRegistry struct {
	maxComponents int
	maxTags       int

	components *intmap.Map[uintptr, Bit]
	tags       *intmap.Map[uintptr, Bit]

	componentTypes []reflect.Type
	tagTypes       []reflect.Type
}

// NewSignatureRegistry creates a registry with room for maxComponents
// component types and maxTags tag types.
func NewSignatureRegistry(maxComponents, maxTags int) *SignatureRegistry {
	if maxComponents < 0 || maxTags < 0 {
		panic("signature registry limits must not be negative")
	}
	return &SignatureRegistry{
		maxComponents: maxComponents,
		maxTags:       maxTags,
		components:    intmap.New[uintptr, Bit](maxComponents),
		tags:          intmap.New[uintptr, Bit](maxTags),
	}
}

// Width returns maxComponents + maxTags.
func (r *SignatureRegistry) Width() uint {
	return uint(r.maxComponents + r.maxTags)
}

// ComponentBit returns the bit registered for component type t.
func (r *SignatureRegistry) ComponentBit(t reflect.Type) (Bit, error) {
	if t == nil {
		return 0, eris.Wrap(ErrNotRegistered, "nil component type")
	}
	bit, ok := r.components.Get(typeKey(t))
	if !ok {
		return 0, eris.Wrapf(ErrNotRegistered, "component %s", t)
	}
	return bit, nil
}

// TagBit returns the bit registered for tag type t.
func (r *SignatureRegistry) TagBit(t reflect.Type) (Bit, error) {
	if t == nil {
		return 0, eris.Wrap(ErrNotRegistered, "nil tag type")
	}
	bit, ok := r.tags.Get(typeKey(t))
	if !ok {
		return 0, eris.Wrapf(ErrNotRegistered, "tag %s", t)
	}
	return bit, nil
}

// RegisterComponentType assigns the next free component bit to t.
// Registering the same type again returns its existing bit.
func (r *SignatureRegistry) RegisterComponentType(t reflect.Type) (Bit, error) {
	if t == nil {
		return 0, eris.New("cannot register nil component type")
	}
	key := typeKey(t)
	if bit, ok := r.components.Get(key); ok {
		return bit, nil
	}
	if len(r.componentTypes) >= r.maxComponents {
		return 0, eris.Wrapf(ErrBitsExhausted, "component %s: limit %d", t, r.maxComponents)
	}
	bit := Bit(len(r.componentTypes))
	r.components.Put(key, bit)
	r.componentTypes = append(r.componentTypes, t)
	return bit, nil
}

// RegisterTagType assigns the next free tag bit to t.
// Registering the same type again returns its existing bit.
func (r *SignatureRegistry) RegisterTagType(t reflect.Type) (Bit, error) {
	if t == nil {
		return 0, eris.New("cannot register nil tag type")
	}
	key := typeKey(t)
	if bit, ok := r.tags.Get(key); ok {
		return bit, nil
	}
	if len(r.tagTypes) >= r.maxTags {
		return 0, eris.Wrapf(ErrBitsExhausted, "tag %s: limit %d", t, r.maxTags)
	}
	bit := Bit(r.maxComponents + len(r.tagTypes))
	r.tags.Put(key, bit)
	r.tagTypes = append(r.tagTypes, t)
	return bit, nil
}

// Components returns registered component types in bit order.
func (r *SignatureRegistry) Components() []reflect.Type {
	return append([]reflect.Type(nil), r.componentTypes...)
}

// Tags returns registered tag types in bit order.
func (r *SignatureRegistry) Tags() []reflect.Type {
	return append([]reflect.Type(nil), r.tagTypes...)
}

// BitName returns the name of the type registered at bit.
func (r *SignatureRegistry) BitName(bit Bit) (string, bool) {
	idx := int(bit)
	if idx < r.maxComponents {
		if idx < len(r.componentTypes) {
			return r.componentTypes[idx].String(), true
		}
		return "", false
	}
	idx -= r.maxComponents
	if idx < len(r.tagTypes) {
		return "#" + r.tagTypes[idx].String(), true
	}
	return "", false
}

// Describe returns the names of every set bit in sig. Tags are prefixed
// with '#'. Unassigned bits are skipped.
func (r *SignatureRegistry) Describe(sig Signature) []string {
	names := make([]string, 0, sig.Count())
	for _, bit := range sig.Bits() {
		if name, ok := r.BitName(bit); ok {
			names = append(names, name)
		}
	}
	return names
}

// RegisterComponent registers T as a component type.
func RegisterComponent[T any](r *SignatureRegistry) (Bit, error) {
	return r.RegisterComponentType(reflect.TypeFor[T]())
}

// RegisterTag registers T as a tag type.
func RegisterTag[T any](r *SignatureRegistry) (Bit, error) {
	return r.RegisterTagType(reflect.TypeFor[T]())
}

// MustRegisterComponent is like RegisterComponent but panics on error.
func MustRegisterComponent[T any](r *SignatureRegistry) Bit {
	bit, err := RegisterComponent[T](r)
	if err != nil {
		panic(err)
	}
	return bit
}

// MustRegisterTag is like RegisterTag but panics on error.
func MustRegisterTag[T any](r *SignatureRegistry) Bit {
	bit, err := RegisterTag[T](r)
	if err != nil {
		panic(err)
	}
	return bit
}

// ComponentBitOf resolves the component bit for T.
func ComponentBitOf[T any](r BitResolver) (Bit, error) {
	return r.ComponentBit(reflect.TypeFor[T]())
}

// TagBitOf resolves the tag bit for T.
func TagBitOf[T any](r BitResolver) (Bit, error) {
	return r.TagBit(reflect.TypeFor[T]())
}
