package debugui

import (
	"reflect"
	"sync"
)

// maxFieldDepth bounds how far nested structs are flattened.
const maxFieldDepth = 4

// FieldInfo describes one exported field reachable from an entity type.
// Path is the field index chain from the root struct.
type FieldInfo struct {
	Name    string
	Path    []int
	Kind    reflect.Kind
	Depth   int
	Pointer bool
	Group   bool
}

// ReflectionCache flattens struct types into their editable fields once per
// type.
type ReflectionCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fields: make(map[reflect.Type][]FieldInfo),
	}
}

// Fields returns the flattened fields of t. Nested structs appear as a group
// entry followed by their own fields one level deeper.
func (rc *ReflectionCache) Fields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fields[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fields[t]; ok {
		return cached
	}

	fields := flattenFields(t, nil, 0, nil)
	rc.fields[t] = fields
	return fields
}

func flattenFields(t reflect.Type, prefix []int, depth int, out []FieldInfo) []FieldInfo {
	if t.Kind() != reflect.Struct || depth > maxFieldDepth {
		return out
	}

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		path := append(append([]int(nil), prefix...), i)
		ft := field.Type
		pointer := ft.Kind() == reflect.Pointer
		if pointer {
			ft = ft.Elem()
		}

		info := FieldInfo{
			Name:    field.Name,
			Path:    path,
			Kind:    ft.Kind(),
			Depth:   depth,
			Pointer: pointer,
			Group:   ft.Kind() == reflect.Struct && !pointer,
		}
		out = append(out, info)
		if info.Group {
			out = flattenFields(ft, path, depth+1, out)
		}
	}
	return out
}

// Resolve walks path from root, returning an invalid value when a nil
// pointer is in the way.
func (f FieldInfo) Resolve(root reflect.Value) reflect.Value {
	v := root
	for _, i := range f.Path {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

var globalReflectionCache = NewReflectionCache()
