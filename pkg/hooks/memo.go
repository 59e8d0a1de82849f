package hooks

// UseMemo declares a memoized computation. While deps compares equal
// to the previous render's list, the cached value is returned and
// compute is not invoked; otherwise compute runs exactly once and its
// result is cached with the new list.
//
// A nil deps list disables memoization (compute runs every render); an
// empty list computes once, at mount.
func UseMemo[T any](s *Session, compute func() T, deps Deps) T {
	sl, idx, fresh := s.next(KindMemo)

	changed, mismatch := depsChanged(sl.deps, deps)
	if mismatch {
		s.inst.reportError(idx, &DepsLengthError{
			Instance: s.inst.id,
			Index:    idx,
			PrevLen:  len(sl.deps),
			NextLen:  len(deps),
		})
	}

	if fresh || !sl.valid || changed {
		sl.memo = compute()
		sl.valid = true
	}
	sl.deps = deps

	return sl.memo.(T)
}
