package reactive

import "reflect"

// IsEqual reports deep structural equality between two tracked values.
// Objects and arrays are compared by enumerable keys / elements, scalars by
// value identity, and function values (including Getter and Method) by code
// pointer. Cyclic inputs are not supported and will exhaust the call stack;
// callers own that limitation.
func IsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ao, ok := a.(Object); ok {
		bo, ok := b.(Object)
		if !ok || len(ao) != len(bo) {
			return false
		}
		for k, av := range ao {
			bv, present := bo[k]
			if !present || !IsEqual(av, bv) {
				return false
			}
		}
		return true
	}

	if as, ok := a.([]any); ok {
		bs, ok := b.([]any)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !IsEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}

	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Kind() == reflect.Func || rb.Kind() == reflect.Func {
		return ra.Kind() == reflect.Func &&
			rb.Kind() == reflect.Func &&
			ra.Pointer() == rb.Pointer()
	}
	if ra.Type() != rb.Type() {
		return false
	}
	if !ra.Type().Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func copySlice(s []any) []any {
	out := make([]any, len(s))
	copy(out, s)
	return out
}

func shallowCopyObject(o Object) Object {
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}
