package reactive

import "sort"

// ArrayProxy wraps an array-valued property. Every mutating operation
// funnels through Mutate: snapshot the current elements, apply the
// operation to a copy, and only when the result structurally differs write
// it back through the normal property-set path. In-place mutation is
// therefore captured uniformly, with exactly one modified-flag transition
// and one render request per effective change.
//
// Elements that are nested objects are returned raw; tracked nested state
// belongs in object-valued properties, not inside arrays.
type ArrayProxy struct {
	owner *Proxy
	key   string
}

func (a *ArrayProxy) items() []any {
	v, _ := a.owner.effective()[a.key].([]any)
	return v
}

func (a *ArrayProxy) Len() int {
	return len(a.items())
}

func (a *ArrayProxy) At(i int) any {
	items := a.items()
	if i < 0 || i >= len(items) {
		return nil
	}
	return items[i]
}

// Slice returns a copy of the current elements.
func (a *ArrayProxy) Slice() []any {
	return copySlice(a.items())
}

// Mutate applies fn to a copy of the current elements and writes the
// result back if it differs from the snapshot. Reports whether a change
// was applied.
func (a *ArrayProxy) Mutate(fn func(items []any) []any) bool {
	snap := a.items()
	next := fn(copySlice(snap))
	if IsEqual(next, snap) {
		return false
	}
	return a.owner.Set(a.key, next)
}

func (a *ArrayProxy) Push(values ...any) bool {
	return a.Mutate(func(items []any) []any {
		return append(items, values...)
	})
}

func (a *ArrayProxy) Pop() any {
	var out any
	a.Mutate(func(items []any) []any {
		if len(items) == 0 {
			return items
		}
		out = items[len(items)-1]
		return items[:len(items)-1]
	})
	return out
}

func (a *ArrayProxy) Shift() any {
	var out any
	a.Mutate(func(items []any) []any {
		if len(items) == 0 {
			return items
		}
		out = items[0]
		return items[1:]
	})
	return out
}

func (a *ArrayProxy) Unshift(values ...any) bool {
	return a.Mutate(func(items []any) []any {
		return append(copySlice(values), items...)
	})
}

func (a *ArrayProxy) Insert(i int, value any) bool {
	return a.Mutate(func(items []any) []any {
		if i < 0 || i > len(items) {
			return items
		}
		items = append(items, nil)
		copy(items[i+1:], items[i:])
		items[i] = value
		return items
	})
}

func (a *ArrayProxy) RemoveAt(i int) any {
	var out any
	a.Mutate(func(items []any) []any {
		if i < 0 || i >= len(items) {
			return items
		}
		out = items[i]
		return append(items[:i], items[i+1:]...)
	})
	return out
}

func (a *ArrayProxy) SetAt(i int, value any) bool {
	return a.Mutate(func(items []any) []any {
		if i < 0 || i >= len(items) {
			return items
		}
		items[i] = value
		return items
	})
}

func (a *ArrayProxy) Sort(less func(a, b any) bool) bool {
	return a.Mutate(func(items []any) []any {
		sort.SliceStable(items, func(i, j int) bool {
			return less(items[i], items[j])
		})
		return items
	})
}

func (a *ArrayProxy) Reverse() bool {
	return a.Mutate(func(items []any) []any {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
		return items
	})
}
