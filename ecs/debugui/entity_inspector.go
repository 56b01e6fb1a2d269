package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/vaabbit/ecs"
)

func NewEntityInspectorComponent() EntityInspectorComponent {
	return EntityInspectorComponent{}
}

func (ei *EntityInspectorComponent) Render(w *ecs.World, selected ecs.EntityId) {
	if !imgui.BeginV("Entity Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ei.selectedEntityId = selected

	if ei.selectedEntityId.IsZero() {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity := w.Registry().Lookup(ei.selectedEntityId)
	if entity == nil {
		imgui.Text(fmt.Sprintf("%s no longer exists", ei.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(ei.selectedEntityId.String())
	if body, ok := w.BodyOf(ei.selectedEntityId); ok {
		bounds := body.Bounds()
		imgui.BulletText(fmt.Sprintf("Kind: %s", body.Kind))
		imgui.BulletText(fmt.Sprintf("Pos: (%.2f, %.2f)", body.Pos.X, body.Pos.Y))
		imgui.BulletText(fmt.Sprintf("Bounds: (%.1f, %.1f) - (%.1f, %.1f)", bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y))
	} else {
		imgui.BulletText("No body")
	}

	if imgui.Button("Remove") {
		e := ei.selectedEntityId
		w.Commands().Defer(func(w *ecs.World) {
			ecs.RemoveEntity(w, e)
		})
	}
	imgui.Separator()

	root := reflect.ValueOf(entity)
	fields := globalReflectionCache.Fields(root.Type().Elem())
	if len(fields) == 0 {
		imgui.Text("No exported fields")
	} else {
		ei.renderFields(root, fields, 0)
	}

	imgui.End()
}

// renderFields draws the run of fields at the depth of fields[start] and
// returns the index of the first field past it.
func (ei *EntityInspectorComponent) renderFields(root reflect.Value, fields []FieldInfo, start int) int {
	depth := fields[start].Depth
	i := start
	for i < len(fields) && fields[i].Depth == depth {
		f := fields[i]
		i++

		if !f.Group {
			ei.renderField(f, f.Resolve(root))
			continue
		}

		open := imgui.TreeNodeStr(f.Name)
		if i < len(fields) && fields[i].Depth > depth {
			if open {
				i = ei.renderFields(root, fields, i)
			} else {
				i = skipNested(fields, i, depth)
			}
		}
		if open {
			imgui.TreePop()
		}
	}
	return i
}

func skipNested(fields []FieldInfo, i, depth int) int {
	for i < len(fields) && fields[i].Depth > depth {
		i++
	}
	return i
}

func (ei *EntityInspectorComponent) renderField(f FieldInfo, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <unreachable>", f.Name))
		return
	}
	if f.Pointer {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", f.Name))
			return
		}
		val = val.Elem()
	}

	label := fmt.Sprintf("##%s%v", f.Name, f.Path)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		labelled(f.Name, 150)
		if imgui.InputInt(label, &v) {
			setField(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		labelled(f.Name, 150)
		if imgui.InputInt(label, &v) && v >= 0 {
			setField(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		labelled(f.Name, 150)
		if imgui.InputFloat(label, &v) {
			setField(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(f.Name, &v) {
			setField(val, v)
		}

	case reflect.String:
		v := val.String()
		labelled(f.Name, 200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			setField(val, v)
		}

	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: [%d items]", f.Name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", f.Name, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", f.Name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", f.Name, val.Type()))
		}
	}
}

func labelled(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}

// setField assigns x to field, converting it to the field's type. Returns
// false when the field is not settable or x does not convert.
func setField(field reflect.Value, x any) bool {
	if !field.CanSet() {
		return false
	}
	v := reflect.ValueOf(x)
	if !v.CanConvert(field.Type()) {
		return false
	}
	field.Set(v.Convert(field.Type()))
	return true
}
