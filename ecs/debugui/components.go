package debugui

import (
	"github.com/plus3/densecs/ecs"
)

type EntityBrowserWindow struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	hasSelection       bool
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type SignatureInspectorWindow struct {
	selectedEntityId ecs.EntityId
}

type FilterDebuggerWindow struct {
	required  map[ecs.Bit]bool
	excluded  map[ecs.Bit]bool
	maxListed int
}

type PerformanceStatsWindow struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}
