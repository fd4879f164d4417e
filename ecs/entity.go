package ecs

// EntityId is a dense handle for a live entity. Live ids always occupy
// [0, Len()) with no holes.
//
// An EntityId is NOT stable across DestroyEntity. Destroying an entity moves
// the last live entity's signature into the destroyed slot, so the id that
// used to name the last entity stops being valid and the destroyed id now
// names what was the last entity. Any bookkeeping keyed by EntityId (spatial
// indices, component storage, external references) must be re-synchronized
// after every destroy. Use Commands to defer destroys until iteration ends.
type EntityId uint32

// Bit is a position in a Signature, issued by a BitResolver.
type Bit uint
