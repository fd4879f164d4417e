package ecs_test

import (
	"testing"

	"github.com/plus3/densecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMatchFixture creates five entities:
//
//	0: Position, Velocity
//	1: Position
//	2: Position, Velocity, #Dead
//	3: Velocity
//	4: (nothing)
func newMatchFixture(t *testing.T) *ecs.EntityManager {
	t.Helper()
	m := newTestManager(8)
	ids := spawn(t, m, 5)

	require.NoError(t, ecs.AddComponent[Position](m, ids[0]))
	require.NoError(t, ecs.AddComponent[Velocity](m, ids[0]))
	require.NoError(t, ecs.AddComponent[Position](m, ids[1]))
	require.NoError(t, ecs.AddComponent[Position](m, ids[2]))
	require.NoError(t, ecs.AddComponent[Velocity](m, ids[2]))
	require.NoError(t, ecs.AddTag[Dead](m, ids[2]))
	require.NoError(t, ecs.AddComponent[Velocity](m, ids[3]))
	return m
}

func TestFilterMatching(t *testing.T) {
	m := newMatchFixture(t)

	tests := []struct {
		name   string
		build  func(f *ecs.Filter)
		expect []uint32
	}{
		{"empty filter matches all", func(f *ecs.Filter) {}, []uint32{0, 1, 2, 3, 4}},
		{"require position", func(f *ecs.Filter) { ecs.Require[Position](f) }, []uint32{0, 1, 2}},
		{"require position and velocity", func(f *ecs.Filter) {
			ecs.Require[Velocity](ecs.Require[Position](f))
		}, []uint32{0, 2}},
		{"exclude dead", func(f *ecs.Filter) {
			ecs.ExcludeTag[Dead](ecs.Require[Velocity](f))
		}, []uint32{0, 3}},
		{"require dead", func(f *ecs.Filter) { ecs.RequireTag[Dead](f) }, []uint32{2}},
		{"exclude position", func(f *ecs.Filter) { ecs.Exclude[Position](f) }, []uint32{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ecs.NewFilter(m.Resolver())
			tt.build(f)
			require.NoError(t, f.Err())

			bitmap, err := m.Match(f)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, bitmap.ToArray())

			count, err := m.CountMatching(f)
			require.NoError(t, err)
			assert.Equal(t, len(tt.expect), count)

			var visited []uint32
			require.NoError(t, m.ForEachMatching(f, func(id ecs.EntityId) {
				visited = append(visited, uint32(id))
			}))
			assert.Equal(t, tt.expect, visited)

			for _, id := range tt.expect {
				ok, err := m.Matches(ecs.EntityId(id), f)
				require.NoError(t, err)
				assert.True(t, ok)

				sig, err := m.Signature(ecs.EntityId(id))
				require.NoError(t, err)
				assert.True(t, f.MatchesSignature(sig))
			}
		})
	}
}

func TestFilterErrors(t *testing.T) {
	m := newMatchFixture(t)

	type Unknown struct{}
	f := ecs.Require[Unknown](ecs.NewFilter(m.Resolver()))
	assert.ErrorIs(t, f.Err(), ecs.ErrNotRegistered)
	_, err := m.Match(f)
	assert.ErrorIs(t, err, ecs.ErrNotRegistered)

	f = ecs.NewFilter(m.Resolver()).WithBit(ecs.Bit(m.Width()))
	assert.ErrorIs(t, f.Err(), ecs.ErrInvalidBit)

	other := ecs.NewFilter(ecs.NewSignatureRegistry(1, 1))
	_, err = m.CountMatching(other)
	assert.ErrorIs(t, err, ecs.ErrInvalidBit, "filters from a different width must be rejected")

	_, err = m.Matches(99, ecs.NewFilter(m.Resolver()))
	assert.ErrorIs(t, err, ecs.ErrOutOfRange)
}

func TestMatchSnapshotGoesStaleAfterDestroy(t *testing.T) {
	m := newMatchFixture(t)

	f := ecs.ExcludeTag[Dead](ecs.NewFilter(m.Resolver()))
	before := m.Version()
	bitmap, err := m.Match(f)
	require.NoError(t, err)
	assert.True(t, bitmap.Contains(4))

	require.NoError(t, m.DestroyEntity(0))
	assert.NotEqual(t, before, m.Version())

	// Id 4 is gone; id 0 now holds what was entity 4.
	assert.False(t, m.Valid(4))
	ok, err := m.Matches(0, f)
	require.NoError(t, err)
	assert.True(t, ok)
}
