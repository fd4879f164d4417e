package ecs

import "errors"

var (
	// ErrOutOfRange is returned when an EntityId is not below the live count.
	ErrOutOfRange = errors.New("entity id out of range")
	// ErrEmptyManager is returned by LastEntity when no entity is live.
	ErrEmptyManager = errors.New("entity manager is empty")
	// ErrCapacityExhausted is returned by CreateEntity on a fixed-capacity manager that is full.
	ErrCapacityExhausted = errors.New("entity capacity exhausted")
	// ErrNotRegistered is returned when a type has no bit in the resolver.
	ErrNotRegistered = errors.New("type not registered")
	// ErrBitsExhausted is returned when a registry namespace has no free bits left.
	ErrBitsExhausted = errors.New("signature bits exhausted")
	// ErrInvalidBit is returned for a bit outside the signature width.
	ErrInvalidBit = errors.New("bit outside signature width")
)
