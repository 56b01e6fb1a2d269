package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/vaabbit/ecs"
	"github.com/plus3/vaabbit/physics"
	"github.com/plus3/vaabbit/shapes"
)

type EntityInfo struct {
	ID   ecs.EntityId
	Type string
	Kind physics.Kind
	Pos  shapes.Vec2
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastFrame     int64
	lastLen       int
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			lastFrame:     -1,
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Position")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filteredEntities := eb.filteredEntities()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			label := fmt.Sprintf("%d v%d", entity.ID.Key.Index(), entity.ID.Key.Generation())
			if imgui.SelectableBoolV(label, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Type)

			imgui.TableNextColumn()
			imgui.Text(entity.Kind.String())

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("(%.1f, %.1f)", entity.Pos.X, entity.Pos.Y))
		}

		imgui.EndTable()
	}

	filteredEntities := eb.filteredEntities()

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
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
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// rebuildCacheIfNeeded refreshes the listing once per frame, or sooner if
// entities were added or removed.
func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(w *ecs.World) {
	if eb.cache.lastFrame != w.Frames() || eb.cache.lastLen != w.Len() {
		eb.rebuildCache(w)
		eb.cache.lastFrame = w.Frames()
		eb.cache.lastLen = w.Len()
	}
}

func (eb *EntityBrowserComponent) rebuildCache(w *ecs.World) {
	eb.cache.entities = collectEntities(w, eb.cache.entities[:0])
	eb.sortEntities()
}

func collectEntities(w *ecs.World, out []EntityInfo) []EntityInfo {
	for _, t := range w.Registry().Types() {
		typeName := t.String()
		for _, id := range w.Registry().Ids(t) {
			info := EntityInfo{ID: id, Type: typeName}
			if body, ok := w.BodyOf(id); ok {
				info.Kind = body.Kind
				info.Pos = body.Pos
			}
			out = append(out, info)
		}
	}
	return out
}

func (eb *EntityBrowserComponent) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 0:
			less = a.ID.Key.Index() < b.ID.Key.Index()
		case 1:
			less = a.Type < b.Type
		case 2:
			less = a.Kind < b.Kind
		case 3:
			less = a.Pos.X < b.Pos.X || (a.Pos.X == b.Pos.X && a.Pos.Y < b.Pos.Y)
		default:
			less = a.ID.Key.Index() < b.ID.Key.Index()
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowserComponent) filteredEntities() []EntityInfo {
	return filterEntities(eb.cache.entities, eb.filterText)
}

// filterEntities keeps the entities whose slot, type or kind contains text,
// case-insensitively.
func filterEntities(entities []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		idStr := fmt.Sprintf("%d", entity.ID.Key.Index())
		typeStr := strings.ToLower(entity.Type)
		kindStr := entity.Kind.String()

		if !strings.Contains(idStr, filterLower) &&
			!strings.Contains(typeStr, filterLower) &&
			!strings.Contains(kindStr, filterLower) {
			continue
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowserComponent) SelectedEntity() ecs.EntityId {
	return eb.selectedEntityId
}
