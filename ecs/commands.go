package ecs

import (
	"cmp"
	"errors"
	"reflect"
	"slices"
)

// Commands buffers structural changes so they can be queued while iterating
// with ForEach and applied afterwards with Flush.
//
// Flush applies destroys from the highest id down. Destroying id k only
// relocates the entity at Len()-1, which is never a lower queued id, so
// every queued id still names the entity it named when it was queued.
type Commands struct {
	creates  []func(EntityId)
	destroys []EntityId
	adds     []membershipCommand
	removes  []membershipCommand
	defers   []func()
}

type membershipCommand struct {
	entity EntityId
	typ    reflect.Type
	tag    bool
}

func newCommands() *Commands {
	return &Commands{}
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return newCommands()
}

// Create queues an entity creation. init, if non-nil, runs with the new id
// once it exists.
func (c *Commands) Create(init func(EntityId)) {
	c.creates = append(c.creates, init)
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity EntityId) {
	c.destroys = append(c.destroys, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, t reflect.Type) {
	c.adds = append(c.adds, membershipCommand{entity: entity, typ: t})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, t reflect.Type) {
	c.removes = append(c.removes, membershipCommand{entity: entity, typ: t})
}

// AddTag queues a tag addition.
func (c *Commands) AddTag(entity EntityId, t reflect.Type) {
	c.adds = append(c.adds, membershipCommand{entity: entity, typ: t, tag: true})
}

// RemoveTag queues a tag removal.
func (c *Commands) RemoveTag(entity EntityId, t reflect.Type) {
	c.removes = append(c.removes, membershipCommand{entity: entity, typ: t, tag: true})
}

// Defer queues a function to run after every other command.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len is the number of queued commands.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies all queued commands to m. Order: removals, additions,
// destroys (descending, deduplicated), creates, deferred functions.
// Membership changes for entities queued for destroy are skipped.
//
// The queues are detached before anything runs, so commands queued from a
// create's init or a deferred function land in the buffer for the next
// Flush. Failures do not stop the flush; they are joined and returned.
func (c *Commands) Flush(m *EntityManager) error {
	removes, adds, destroys, creates, defers := c.removes, c.adds, c.destroys, c.creates, c.defers
	c.removes, c.adds, c.destroys, c.creates, c.defers = nil, nil, nil, nil, nil

	destroyed := make(map[EntityId]bool, len(destroys))
	for _, id := range destroys {
		destroyed[id] = true
	}

	var errs []error
	apply := func(cmds []membershipCommand, remove bool) {
		for _, cmd := range cmds {
			if destroyed[cmd.entity] {
				continue
			}
			if err := cmd.apply(m, remove); err != nil {
				errs = append(errs, err)
			}
		}
	}
	apply(removes, true)
	apply(adds, false)

	slices.SortFunc(destroys, func(a, b EntityId) int { return cmp.Compare(b, a) })
	for _, id := range slices.Compact(destroys) {
		if err := m.DestroyEntity(id); err != nil {
			errs = append(errs, err)
		}
	}

	for _, init := range creates {
		id, err := m.CreateEntity()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if init != nil {
			init(id)
		}
	}

	for _, fn := range defers {
		fn()
	}

	return errors.Join(errs...)
}

func (cmd membershipCommand) apply(m *EntityManager, remove bool) error {
	switch {
	case cmd.tag && remove:
		return m.RemoveTag(cmd.entity, cmd.typ)
	case cmd.tag:
		return m.AddTag(cmd.entity, cmd.typ)
	case remove:
		return m.RemoveComponent(cmd.entity, cmd.typ)
	default:
		return m.AddComponent(cmd.entity, cmd.typ)
	}
}
