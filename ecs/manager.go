package ecs

import (
	"iter"
	"math"
	"reflect"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	minGrowth   = 64
	maxEntities = min(math.MaxUint32, math.MaxInt)
)

// EntityManager allocates dense entity ids and tracks each live entity's
// component and tag membership as a fixed-width Signature.
//
// Live ids are always exactly [0, Len()). DestroyEntity keeps them dense by
// moving the last live entity into the freed slot, which changes that
// entity's id. See EntityId.
//
// An EntityManager is not safe for concurrent use. All calls, including
// ForEach callbacks, must be serialized by the caller.
type EntityManager struct {
	resolver BitResolver
	width    uint
	stride   int

	// words holds capacity*stride words; entity i owns words[i*stride:(i+1)*stride].
	words    []uint64
	capacity int
	live     int
	version  uint64

	fixedCapacity bool
	logger        zerolog.Logger
}

// NewEntityManager creates a manager whose signatures are resolver.Width()
// bits wide, with storage reserved for capacity entities.
func NewEntityManager(resolver BitResolver, capacity int, opts ...Option) *EntityManager {
	if resolver == nil {
		panic("entity manager requires a bit resolver")
	}
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity < 0 {
		capacity = 0
	}
	if capacity > maxEntities {
		capacity = maxEntities
	}

	width := resolver.Width()
	stride := int((width + 63) / 64)
	return &EntityManager{
		resolver:      resolver,
		width:         width,
		stride:        stride,
		words:         make([]uint64, capacity*stride),
		capacity:      capacity,
		fixedCapacity: o.fixedCapacity,
		logger:        o.logger,
	}
}

// CreateEntity returns a new id equal to the previous Len(). The new entity
// has an all-zero signature.
func (m *EntityManager) CreateEntity() (EntityId, error) {
	if m.live == m.capacity {
		if m.fixedCapacity {
			return 0, eris.Wrapf(ErrCapacityExhausted, "capacity %d", m.capacity)
		}
		if m.capacity == maxEntities {
			return 0, eris.Wrapf(ErrCapacityExhausted, "id space of %d entities", maxEntities)
		}
		growth := max(m.capacity, minGrowth)
		next := maxEntities
		if m.capacity < maxEntities-growth {
			next = m.capacity + growth
		}
		m.reserve(next)
	}

	id := m.live
	clear(m.slot(id))
	m.live++
	m.version++
	return EntityId(id), nil
}

// DestroyEntity removes id in O(1) by moving the last live entity into its
// slot. After it returns, the id Len() (the old last id) is no longer valid
// and id names what used to be the last entity.
func (m *EntityManager) DestroyEntity(id EntityId) error {
	if err := m.checkEntity(id); err != nil {
		return err
	}

	last := m.live - 1
	if int(id) != last {
		copy(m.slot(int(id)), m.slot(last))
	}
	clear(m.slot(last))
	m.live--
	m.version++
	return nil
}

// HasBit reports whether bit is set in id's signature.
func (m *EntityManager) HasBit(id EntityId, bit Bit) (bool, error) {
	if err := m.checkEntity(id); err != nil {
		return false, err
	}
	if err := m.checkBit(bit); err != nil {
		return false, err
	}
	return m.hasBit(id, bit), nil
}

// SetBit sets bit in id's signature. Setting a set bit is a no-op.
func (m *EntityManager) SetBit(id EntityId, bit Bit) error {
	if err := m.checkEntity(id); err != nil {
		return err
	}
	if err := m.checkBit(bit); err != nil {
		return err
	}
	m.setBit(id, bit)
	return nil
}

// ClearBit clears bit in id's signature. Clearing a clear bit is a no-op.
func (m *EntityManager) ClearBit(id EntityId, bit Bit) error {
	if err := m.checkEntity(id); err != nil {
		return err
	}
	if err := m.checkBit(bit); err != nil {
		return err
	}
	m.clearBit(id, bit)
	return nil
}

// HasComponent reports whether id has component type t.
func (m *EntityManager) HasComponent(id EntityId, t reflect.Type) (bool, error) {
	bit, err := m.resolve(id, m.resolver.ComponentBit, t)
	if err != nil {
		return false, err
	}
	return m.hasBit(id, bit), nil
}

// AddComponent marks id as having component type t.
func (m *EntityManager) AddComponent(id EntityId, t reflect.Type) error {
	bit, err := m.resolve(id, m.resolver.ComponentBit, t)
	if err != nil {
		return err
	}
	m.setBit(id, bit)
	return nil
}

// RemoveComponent marks id as no longer having component type t.
func (m *EntityManager) RemoveComponent(id EntityId, t reflect.Type) error {
	bit, err := m.resolve(id, m.resolver.ComponentBit, t)
	if err != nil {
		return err
	}
	m.clearBit(id, bit)
	return nil
}

// HasTag reports whether id carries tag type t.
func (m *EntityManager) HasTag(id EntityId, t reflect.Type) (bool, error) {
	bit, err := m.resolve(id, m.resolver.TagBit, t)
	if err != nil {
		return false, err
	}
	return m.hasBit(id, bit), nil
}

// AddTag marks id with tag type t.
func (m *EntityManager) AddTag(id EntityId, t reflect.Type) error {
	bit, err := m.resolve(id, m.resolver.TagBit, t)
	if err != nil {
		return err
	}
	m.setBit(id, bit)
	return nil
}

// RemoveTag removes tag type t from id.
func (m *EntityManager) RemoveTag(id EntityId, t reflect.Type) error {
	bit, err := m.resolve(id, m.resolver.TagBit, t)
	if err != nil {
		return err
	}
	m.clearBit(id, bit)
	return nil
}

// Signature returns a read-only view of id's signature. The view shares
// storage with the manager and is invalidated by the next mutating call.
func (m *EntityManager) Signature(id EntityId) (Signature, error) {
	if err := m.checkEntity(id); err != nil {
		return Signature{}, err
	}
	return newSignatureView(m.width, m.slot(int(id))), nil
}

// Resize reserves storage for at least capacity entities. It never shrinks
// storage and never changes Len() or any signature.
func (m *EntityManager) Resize(capacity int) {
	if capacity <= m.capacity {
		return
	}
	m.reserve(min(capacity, maxEntities))
}

// LastEntity returns the highest live id, Len()-1.
func (m *EntityManager) LastEntity() (EntityId, error) {
	if m.live == 0 {
		return 0, eris.Wrap(ErrEmptyManager, "no last entity")
	}
	return EntityId(m.live - 1), nil
}

// ForEach calls visit once for every live id in ascending order.
//
// Creating or destroying entities from inside visit is unspecified
// behaviour: destroyed ids may be skipped or visited twice. Queue structural
// changes on a Commands buffer and flush it after the loop.
func (m *EntityManager) ForEach(visit func(EntityId)) {
	for id := 0; id < m.live; id++ {
		visit(EntityId(id))
	}
}

// All returns an iterator over live ids in ascending order. The same
// mutation caveat as ForEach applies.
func (m *EntityManager) All() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for id := 0; id < m.live; id++ {
			if !yield(EntityId(id)) {
				return
			}
		}
	}
}

// Len is the number of live entities.
func (m *EntityManager) Len() int {
	return m.live
}

// Cap is the number of entities storage is reserved for.
func (m *EntityManager) Cap() int {
	return m.capacity
}

// Width is the number of bits in every signature.
func (m *EntityManager) Width() uint {
	return m.width
}

// Valid reports whether id currently names a live entity. It cannot tell
// whether id still names the same entity it did before a destroy.
func (m *EntityManager) Valid(id EntityId) bool {
	return int(id) < m.live
}

// Version changes on every create, destroy and bit mutation. Callers that
// cache ids or Match results can compare versions to detect staleness.
func (m *EntityManager) Version() uint64 {
	return m.version
}

// Resolver returns the bit resolver the manager was built with.
func (m *EntityManager) Resolver() BitResolver {
	return m.resolver
}

// Logger returns the manager's logger.
func (m *EntityManager) Logger() *zerolog.Logger {
	return &m.logger
}

func (m *EntityManager) slot(i int) []uint64 {
	start := i * m.stride
	end := start + m.stride
	return m.words[start:end:end]
}

func (m *EntityManager) reserve(capacity int) {
	words := make([]uint64, capacity*m.stride)
	copy(words, m.words[:m.live*m.stride])
	m.logger.Debug().
		Int("from", m.capacity).
		Int("to", capacity).
		Int("live", m.live).
		Msg("entity storage grown")
	m.words = words
	m.capacity = capacity
}

// resolve checks id once and maps t to a bit inside the signature width.
// The unchecked bit helpers below rely on it.
func (m *EntityManager) resolve(id EntityId, lookup func(reflect.Type) (Bit, error), t reflect.Type) (Bit, error) {
	if err := m.checkEntity(id); err != nil {
		return 0, err
	}
	bit, err := lookup(t)
	if err != nil {
		return 0, err
	}
	if err := m.checkBit(bit); err != nil {
		return 0, err
	}
	return bit, nil
}

func (m *EntityManager) hasBit(id EntityId, bit Bit) bool {
	return m.words[int(id)*m.stride+int(bit>>6)]&(1<<(bit&63)) != 0
}

func (m *EntityManager) setBit(id EntityId, bit Bit) {
	m.words[int(id)*m.stride+int(bit>>6)] |= 1 << (bit & 63)
	m.version++
}

func (m *EntityManager) clearBit(id EntityId, bit Bit) {
	m.words[int(id)*m.stride+int(bit>>6)] &^= 1 << (bit & 63)
	m.version++
}

func (m *EntityManager) checkEntity(id EntityId) error {
	if int(id) >= m.live {
		return eris.Wrapf(ErrOutOfRange, "entity %d (live %d)", id, m.live)
	}
	return nil
}

func (m *EntityManager) checkBit(bit Bit) error {
	if uint(bit) >= m.width {
		return eris.Wrapf(ErrInvalidBit, "bit %d (width %d)", bit, m.width)
	}
	return nil
}

// HasComponent reports whether id has component T.
func HasComponent[T any](m *EntityManager, id EntityId) (bool, error) {
	return m.HasComponent(id, reflect.TypeFor[T]())
}

// AddComponent marks id as having component T.
func AddComponent[T any](m *EntityManager, id EntityId) error {
	return m.AddComponent(id, reflect.TypeFor[T]())
}

// RemoveComponent marks id as no longer having component T.
func RemoveComponent[T any](m *EntityManager, id EntityId) error {
	return m.RemoveComponent(id, reflect.TypeFor[T]())
}

// HasTag reports whether id carries tag T.
func HasTag[T any](m *EntityManager, id EntityId) (bool, error) {
	return m.HasTag(id, reflect.TypeFor[T]())
}

// AddTag marks id with tag T.
func AddTag[T any](m *EntityManager, id EntityId) error {
	return m.AddTag(id, reflect.TypeFor[T]())
}

// RemoveTag removes tag T from id.
func RemoveTag[T any](m *EntityManager, id EntityId) error {
	return m.RemoveTag(id, reflect.TypeFor[T]())
}
