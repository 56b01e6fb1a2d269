package debugui

import (
	"github.com/plus3/vaabbit/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type EntityInspectorComponent struct {
	selectedEntityId ecs.EntityId
}

type TreeViewerComponent struct {
	cache         *TreeViewerCache
	selectedNode  int
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	logicHistory  []float32
	frameIndex    int
}

type RegionQueryComponent struct {
	min, max [2]float32
	results  []ecs.EntityId
}
