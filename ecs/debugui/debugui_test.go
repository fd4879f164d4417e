package debugui

import (
	"testing"

	"github.com/plus3/densecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float32 }
type velocity struct{ DX, DY float32 }
type selected struct{}

func newBrowserFixture(t *testing.T) (*ecs.EntityManager, *ecs.SignatureRegistry) {
	t.Helper()
	registry := ecs.NewSignatureRegistry(4, 4)
	ecs.MustRegisterComponent[position](registry)
	ecs.MustRegisterComponent[velocity](registry)
	ecs.MustRegisterTag[selected](registry)

	manager := ecs.NewEntityManager(registry, 4)
	for i := 0; i < 3; i++ {
		_, err := manager.CreateEntity()
		require.NoError(t, err)
	}
	require.NoError(t, ecs.AddComponent[position](manager, 0))
	require.NoError(t, ecs.AddComponent[velocity](manager, 0))
	require.NoError(t, ecs.AddComponent[velocity](manager, 1))
	require.NoError(t, ecs.AddTag[selected](manager, 2))
	return manager, registry
}

func TestEntityBrowserCache(t *testing.T) {
	manager, registry := newBrowserFixture(t)
	eb := NewEntityBrowserWindow(2)

	eb.rebuildCacheIfNeeded(manager, registry)
	require.Len(t, eb.cache.entities, 3)
	assert.Equal(t, []string{"debugui.position", "debugui.velocity"}, eb.cache.entities[0].Names)
	assert.Equal(t, 2, eb.cache.entities[0].Count)
	assert.Equal(t, []string{"#debugui.selected"}, eb.cache.entities[2].Names)

	eb.filterText = "VELOCITY"
	filtered := eb.getFilteredEntities()
	require.Len(t, filtered, 2)
	assert.Equal(t, ecs.EntityId(0), filtered[0].ID)
	assert.Equal(t, ecs.EntityId(1), filtered[1].ID)

	eb.filterText = ""
	eb.cache.sortColumn = 2
	eb.cache.sortAscending = false
	eb.sortEntities()
	assert.Equal(t, ecs.EntityId(0), eb.cache.entities[0].ID)

	start, end := eb.pageBounds(3)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
	eb.currentPage = 5
	start, end = eb.pageBounds(3)
	assert.Equal(t, 2, start, "page clamps to the last page")
	assert.Equal(t, 3, end)
}

func TestEntityBrowserRebuildsOnVersionChange(t *testing.T) {
	manager, registry := newBrowserFixture(t)
	eb := NewEntityBrowserWindow(100)

	eb.rebuildCacheIfNeeded(manager, registry)
	eb.selectedEntityId = 2
	eb.hasSelection = true

	require.NoError(t, manager.DestroyEntity(0))
	eb.rebuildCacheIfNeeded(manager, registry)

	assert.Len(t, eb.cache.entities, 2)
	_, ok := eb.GetSelectedEntity()
	assert.False(t, ok, "selection past Len() is dropped")

	// Entity 2 moved into slot 0.
	assert.Equal(t, []string{"#debugui.selected"}, eb.cache.entities[0].Names)
}

func TestEntityBrowserSelectionAcrossDestroys(t *testing.T) {
	t.Run("destroying another entity clears the selection", func(t *testing.T) {
		manager, registry := newBrowserFixture(t)
		eb := NewEntityBrowserWindow(100)
		eb.rebuildCacheIfNeeded(manager, registry)
		eb.selectedEntityId = 0
		eb.hasSelection = true

		require.NoError(t, manager.DestroyEntity(1))
		eb.rebuildCacheIfNeeded(manager, registry)

		assert.True(t, manager.Valid(0))
		_, ok := eb.GetSelectedEntity()
		assert.False(t, ok)
	})

	t.Run("a destroy balanced by a create keeps the id", func(t *testing.T) {
		manager, registry := newBrowserFixture(t)
		eb := NewEntityBrowserWindow(100)
		eb.rebuildCacheIfNeeded(manager, registry)
		eb.selectedEntityId = 0
		eb.hasSelection = true

		require.NoError(t, manager.DestroyEntity(0))
		_, err := manager.CreateEntity()
		require.NoError(t, err)
		eb.rebuildCacheIfNeeded(manager, registry)

		id, ok := eb.GetSelectedEntity()
		require.True(t, ok)
		assert.Equal(t, ecs.EntityId(0), id)
		// The entity formerly at id 2 now answers to the selected id.
		assert.Equal(t, []string{"#debugui.selected"}, eb.cache.entities[0].Names)
	})
}

func TestFilterDebugger(t *testing.T) {
	manager, registry := newBrowserFixture(t)
	fd := NewFilterDebuggerWindow(10)

	vel, err := ecs.ComponentBitOf[velocity](registry)
	require.NoError(t, err)
	pos, err := ecs.ComponentBitOf[position](registry)
	require.NoError(t, err)

	fd.toggle(vel, true, false)
	matched, err := manager.Match(fd.filter(registry))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1}, matched.ToArray())

	fd.toggle(pos, true, true)
	matched, err = manager.Match(fd.filter(registry))
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, matched.ToArray())

	// Requiring an excluded bit moves it between sets.
	fd.toggle(pos, true, false)
	assert.True(t, fd.required[pos])
	assert.False(t, fd.excluded[pos])

	fd.toggle(vel, false, false)
	assert.False(t, fd.required[vel])
}

func TestSignatureRows(t *testing.T) {
	manager, registry := newBrowserFixture(t)
	sig, err := manager.Signature(0)
	require.NoError(t, err)

	rows := signatureRows(registry, sig)
	require.Len(t, rows, 3)
	assert.Equal(t, "debugui.position", rows[0].Name)
	assert.True(t, rows[0].Set)
	assert.True(t, rows[1].Set)
	assert.Equal(t, "#debugui.selected", rows[2].Name)
	assert.Equal(t, ecs.Bit(4), rows[2].Bit)
	assert.False(t, rows[2].Set)
}

func TestPerformanceStatsHistory(t *testing.T) {
	ps := NewPerformanceStatsWindow(4)
	ps.record(0.010)
	ps.record(0.030)
	assert.InDelta(t, 10.0, ps.averageFrameTime(), 0.001)

	empty := NewPerformanceStatsWindow(0)
	empty.record(1)
	assert.Equal(t, float32(0), empty.averageFrameTime())
}

func TestFramesPerSecond(t *testing.T) {
	assert.InDelta(t, 60.0, framesPerSecond(1000.0/60), 0.001)
	assert.Equal(t, float32(0), framesPerSecond(0), "no history reports 0, not +Inf")
	assert.Equal(t, float32(0), NewPerformanceStatsWindow(8).averageFrameTime())
	assert.Equal(t, float32(0), framesPerSecond(NewPerformanceStatsWindow(8).averageFrameTime()))
}
