package ecs

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for the update pass of one
// entity type under one frame context type.
type SystemStats struct {
	Name           string
	Context        string
	Entities       int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	context        string
	entities       int
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(duration time.Duration, entities int) {
	s.executionCount++
	s.entities = entities
	s.lastDuration = duration
	s.totalDuration += duration

	if duration < s.minDuration {
		s.minDuration = duration
	}
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

// updater runs the update pass of one entity type. run holds a
// func(*World, C) for the context type it was registered under.
type updater struct {
	typ   reflect.Type
	run   any
	stats *systemStatsInternal
}

// registerUpdater adds the update pass of T under context type C, once.
func registerUpdater[T any, C any, PT Actor[T, C]](w *World, s *entityStore[T]) {
	ctxType := reflect.TypeFor[C]()
	for _, u := range w.systems[ctxType] {
		if u.typ == s.typ {
			return
		}
	}

	u := &updater{
		typ: s.typ,
		run: func(w *World, ctx C) int {
			return updateAll[T, C, PT](w, s, ctx)
		},
		stats: &systemStatsInternal{
			name:        s.typ.String(),
			context:     ctxType.String(),
			minDuration: time.Duration(1<<63 - 1),
		},
	}
	w.systems[ctxType] = append(w.systems[ctxType], u)
	w.updaters = append(w.updaters, u)
}

// updateAll updates a snapshot of the live entities of T in insertion order,
// flushing the deferred queue after each one.
func updateAll[T any, C any, PT Actor[T, C]](w *World, s *entityStore[T], ctx C) int {
	ids := s.ids()
	updated := 0
	for _, id := range ids {
		e, ok := s.take(id)
		if !ok {
			continue
		}
		PT(e).Update(id, w, ctx)
		s.putBack()
		updated++

		w.commands.Flush(w)
	}
	return updated
}

// UpdateSystems runs one frame: every entity type registered for context
// type C is updated in registration order, then the spatial index is
// cleaned up. It panics when no entity type was registered for C.
func UpdateSystems[C any](w *World, ctx C) {
	ctxType := reflect.TypeFor[C]()
	systems, ok := w.systems[ctxType]
	if !ok || len(systems) == 0 {
		panic(fmt.Sprintf("ecs: no update systems registered for context type %s", ctxType))
	}

	frameStart := time.Now()
	for _, u := range systems {
		start := time.Now()
		n := u.run.(func(*World, C) int)(w, ctx)
		u.stats.record(time.Since(start), n)
	}

	// Leftovers queued outside any entity update.
	w.commands.Flush(w)

	removed := w.space.Cleanup()
	clear(w.pairs)
	w.logicUpdate = time.Since(frameStart)
	w.frames++

	if removed > 0 {
		w.logger.Debug("ecs: frame cleanup", "frame", w.frames, "bodies_removed", removed)
	}
}

// Run calls UpdateSystems with frame at the given interval until ctx is
// cancelled.
func Run[C any](ctx context.Context, w *World, interval time.Duration, frame C) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			UpdateSystems(w, frame)
		}
	}
}

// Stats returns statistics about every update pass, in registration order.
func (w *World) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(w.updaters),
		Systems:     make([]SystemStats, len(w.updaters)),
	}

	var totalExecs int64
	for i, u := range w.updaters {
		internal := u.stats
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			Context:        internal.context,
			Entities:       internal.entities,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
