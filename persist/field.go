package persist

import "reflect"

type (
	Ptrs             []any
	RowScan[T any]   func(*T) (Ptrs, Action)
	Action           func()
	FieldType[T any] struct {
		Mod     QueryMod
		RowScan RowScan[T]

		// Column and Value are only set for fields that are written on insert and update.
		Column string
		Value  func(t *T) any
	}
)

func Ptr[T any](ptr func(t *T) any) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		return Ptrs{ptr(t)}, nil
	}
}

// Deref turns a field pointer into the value it points at, so the same accessor can feed
// both scans and writes.
func Deref[T any](ptr func(t *T) any) func(t *T) any {
	return func(t *T) any {
		v := reflect.ValueOf(ptr(t))
		if v.Kind() != reflect.Pointer {
			return v.Interface()
		}
		if v.IsNil() {
			return nil
		}
		return v.Elem().Interface()
	}
}

func Field[T any](mod QueryMod, scan RowScan[T]) FieldType[T] {
	return FieldType[T]{Mod: mod, RowScan: scan}
}

// Column is a field that is selected, scanned and written under the same column name.
func Column[T any](name string, ptr func(t *T) any) FieldType[T] {
	return FieldType[T]{
		Mod:     Col(name),
		RowScan: Ptr(ptr),
		Column:  name,
		Value:   Deref(ptr),
	}
}

func (field FieldType[T]) writable() bool {
	return field.Column != "" && field.Value != nil
}

func flattenRowScan[T any](rowScans []RowScan[T]) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		var (
			pointers Ptrs
			actions  []Action
		)
		for _, rowScan := range rowScans {
			ptr, action := rowScan(t)
			pointers = append(pointers, ptr...)
			if action != nil {
				actions = append(actions, action)
			}
		}

		return pointers, flattenActions(actions)
	}
}

func flattenActions(actions []Action) Action {
	return func() {
		for _, action := range actions {
			action()
		}
	}
}
