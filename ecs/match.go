package ecs

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rotisserie/eris"
)

// Matches reports whether id satisfies f.
func (m *EntityManager) Matches(id EntityId, f *Filter) (bool, error) {
	if err := m.checkFilter(f); err != nil {
		return false, err
	}
	if err := m.checkEntity(id); err != nil {
		return false, err
	}
	return f.matchesSlot(m.slot(int(id))), nil
}

// ForEachMatching calls visit for every live id that satisfies f, in
// ascending order. The mutation caveat of ForEach applies.
func (m *EntityManager) ForEachMatching(f *Filter, visit func(EntityId)) error {
	if err := m.checkFilter(f); err != nil {
		return err
	}
	for id := 0; id < m.live; id++ {
		if f.matchesSlot(m.slot(id)) {
			visit(EntityId(id))
		}
	}
	return nil
}

// Match returns the set of live ids that satisfy f. The bitmap is a
// snapshot: any DestroyEntity afterwards can make its ids name different
// entities. Compare Version before and after to detect that.
func (m *EntityManager) Match(f *Filter) (*roaring.Bitmap, error) {
	if err := m.checkFilter(f); err != nil {
		return nil, err
	}
	result := roaring.New()
	for id := 0; id < m.live; id++ {
		if f.matchesSlot(m.slot(id)) {
			result.Add(uint32(id))
		}
	}
	return result, nil
}

// CountMatching returns how many live ids satisfy f.
func (m *EntityManager) CountMatching(f *Filter) (int, error) {
	if err := m.checkFilter(f); err != nil {
		return 0, err
	}
	n := 0
	for id := 0; id < m.live; id++ {
		if f.matchesSlot(m.slot(id)) {
			n++
		}
	}
	return n, nil
}

func (m *EntityManager) checkFilter(f *Filter) error {
	if f == nil {
		return eris.New("nil filter")
	}
	if f.err != nil {
		return f.err
	}
	if f.all.Len() != m.width {
		return eris.Wrapf(ErrInvalidBit, "filter width %d does not match signature width %d", f.all.Len(), m.width)
	}
	return nil
}
