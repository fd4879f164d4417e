package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/densecs/ecs"
)

type EntityInfo struct {
	ID    ecs.EntityId
	Names []string
	Count int
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	version       uint64
	live          int
	valid         bool
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserWindow(maxEntitiesPerPage int) *EntityBrowserWindow {
	return &EntityBrowserWindow{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserWindow) Render(manager *ecs.EntityManager, registry *ecs.SignatureRegistry) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(manager, registry)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Signature")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filteredEntities := eb.getFilteredEntities()
		startIdx, endIdx := eb.pageBounds(len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
				eb.hasSelection = true
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.Names, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.Count))
		}

		imgui.EndTable()
	}

	filteredEntities := eb.getFilteredEntities()

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := eb.totalPages(len(filteredEntities))
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// rebuildCacheIfNeeded rebuilds whenever the manager's version moved.
// A drop in the live count means a destroy ran and may have moved another
// entity into the selected id, so the selection is cleared.
func (eb *EntityBrowserWindow) rebuildCacheIfNeeded(manager *ecs.EntityManager, registry *ecs.SignatureRegistry) {
	if eb.cache.valid && eb.cache.version == manager.Version() {
		return
	}
	if eb.hasSelection && (manager.Len() < eb.cache.live || !manager.Valid(eb.selectedEntityId)) {
		eb.hasSelection = false
	}
	eb.rebuildCache(manager, registry)
}

func (eb *EntityBrowserWindow) rebuildCache(manager *ecs.EntityManager, registry *ecs.SignatureRegistry) {
	eb.cache.entities = make([]EntityInfo, 0, manager.Len())

	manager.ForEach(func(id ecs.EntityId) {
		sig, err := manager.Signature(id)
		if err != nil {
			return
		}
		names := registry.Describe(sig)
		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			ID:    id,
			Names: names,
			Count: sig.Count(),
		})
	})

	eb.cache.version = manager.Version()
	eb.cache.live = manager.Len()
	eb.cache.valid = true
	eb.sortEntities()
}

func (eb *EntityBrowserWindow) sortEntities() {
	slices.SortStableFunc(eb.cache.entities, func(a, b EntityInfo) int {
		var c int
		switch eb.cache.sortColumn {
		case 1:
			c = strings.Compare(strings.Join(a.Names, ","), strings.Join(b.Names, ","))
		case 2:
			c = cmp.Compare(a.Count, b.Count)
		default:
			c = cmp.Compare(a.ID, b.ID)
		}

		if !eb.cache.sortAscending {
			return -c
		}
		return c
	})
}

func (eb *EntityBrowserWindow) getFilteredEntities() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		idStr := fmt.Sprintf("%d", entity.ID)
		namesStr := strings.ToLower(strings.Join(entity.Names, " "))

		if !strings.Contains(idStr, filterLower) && !strings.Contains(namesStr, filterLower) {
			continue
		}
		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowserWindow) totalPages(n int) int {
	if eb.maxEntitiesPerPage <= 0 {
		return 1
	}
	return max(1, (n+eb.maxEntitiesPerPage-1)/eb.maxEntitiesPerPage)
}

func (eb *EntityBrowserWindow) pageBounds(n int) (int, int) {
	if eb.maxEntitiesPerPage <= 0 {
		return 0, n
	}
	if last := eb.totalPages(n) - 1; eb.currentPage > last {
		eb.currentPage = last
	}
	start := eb.currentPage * eb.maxEntitiesPerPage
	return start, min(start+eb.maxEntitiesPerPage, n)
}

// GetSelectedEntity returns the selected id. The selection follows the id,
// not the entity. It is cleared whenever the live count drops between two
// renders, but a destroy balanced by a create in the same frame keeps it,
// and the id then names whichever entity was moved into it.
func (eb *EntityBrowserWindow) GetSelectedEntity() (ecs.EntityId, bool) {
	return eb.selectedEntityId, eb.hasSelection
}
