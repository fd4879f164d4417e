package ecs_test

import (
	"testing"

	"github.com/plus3/densecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStats(t *testing.T) {
	m := newTestManager(4)

	stats := m.CollectStats()
	assert.Equal(t, 0, stats.Live)
	assert.Equal(t, 4, stats.Capacity)
	assert.Equal(t, uint(testMaxComponents+testMaxTags), stats.Width)
	assert.Len(t, stats.BitPopulation, testMaxComponents+testMaxTags)

	ids := spawn(t, m, 3)
	require.NoError(t, ecs.AddComponent[Position](m, ids[0]))
	require.NoError(t, ecs.AddComponent[Position](m, ids[1]))
	require.NoError(t, ecs.AddTag[Enemy](m, ids[2]))

	stats = m.CollectStats()
	assert.Equal(t, 3, stats.Live)

	pos, err := ecs.ComponentBitOf[Position](m.Resolver())
	require.NoError(t, err)
	enemy, err := ecs.TagBitOf[Enemy](m.Resolver())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.BitPopulation[pos])
	assert.Equal(t, 1, stats.BitPopulation[enemy])

	total := 0
	for _, n := range stats.BitPopulation {
		total += n
	}
	assert.Equal(t, 3, total)

	require.NoError(t, m.DestroyEntity(ids[0]))
	stats = m.CollectStats()
	assert.Equal(t, 1, stats.BitPopulation[pos], "destroyed entities do not count")
}
