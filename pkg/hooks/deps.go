package hooks

import "reflect"

// Deps is an ordered list of values compared across renders to decide
// whether a memoized computation or effect must re-run.
//
// A nil Deps means "no memoization": the consumer re-runs on every
// render. An empty non-nil Deps means "mount only": the consumer runs
// once and never again.
type Deps []any

// DepsOf builds a dependency list from its arguments. With no
// arguments it returns an empty, non-nil list (run once, at mount).
func DepsOf(vals ...any) Deps {
	if vals == nil {
		return Deps{}
	}
	return Deps(vals)
}

// depsChanged reports whether next differs from prev under shallow
// comparison. Either list being nil means "always changed". A length
// mismatch is treated as changed and additionally flagged so callers
// can surface a diagnostic; the comparator itself never fails.
func depsChanged(prev, next Deps) (changed, lengthMismatch bool) {
	if prev == nil || next == nil {
		return true, false
	}
	if len(prev) != len(next) {
		return true, true
	}
	for i := range prev {
		if !sameValue(prev[i], next[i]) {
			return true, false
		}
	}
	return false, false
}

// sameValue implements the shallow identity semantics used for both
// dependency comparison and state bail-out: value equality for
// comparable values, reference identity for pointers, functions, maps,
// slices and channels. Values of uncomparable non-reference types are
// never considered equal.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Func, reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		// Reference identity: same backing array and length.
		return ra.Len() == rb.Len() && (ra.Len() == 0 || ra.Pointer() == rb.Pointer())
	default:
		if !ra.Comparable() {
			return false
		}
		return a == b
	}
}
