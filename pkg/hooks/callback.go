package hooks

// UseCallback declares an identity-preserving function cache. While
// deps compares equal to the previous render's list, the previously
// adopted function reference is returned, so consumers that skip work
// on identical references keep skipping. F must be a function type.
func UseCallback[F any](s *Session, fn F, deps Deps) F {
	sl, idx, fresh := s.next(KindCallback)

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
		sl.memo = fn
		sl.valid = true
	}
	sl.deps = deps

	return sl.memo.(F)
}
