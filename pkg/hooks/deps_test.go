package hooks

import "testing"

func TestDepsChangedNilAlwaysChanges(t *testing.T) {
	if changed, _ := depsChanged(nil, nil); !changed {
		t.Error("nil vs nil should always change")
	}
	if changed, _ := depsChanged(Deps{1}, nil); !changed {
		t.Error("prev vs nil should change")
	}
	if changed, _ := depsChanged(nil, Deps{1}); !changed {
		t.Error("nil vs next should change")
	}
}

func TestDepsChangedEmptyNeverChanges(t *testing.T) {
	changed, mismatch := depsChanged(Deps{}, Deps{})
	if changed {
		t.Error("empty vs empty should never change")
	}
	if mismatch {
		t.Error("empty vs empty is not a length mismatch")
	}
}

func TestDepsChangedLengthMismatch(t *testing.T) {
	changed, mismatch := depsChanged(Deps{1, 2}, Deps{1})
	if !changed {
		t.Error("length mismatch should be treated as changed")
	}
	if !mismatch {
		t.Error("length mismatch should be flagged")
	}
}

func TestDepsChangedElementWise(t *testing.T) {
	fn := func() {}
	p := &struct{ n int }{n: 1}
	sl := []int{1, 2, 3}

	tests := []struct {
		name    string
		prev    Deps
		next    Deps
		changed bool
	}{
		{"equal primitives", Deps{1, "a", true}, Deps{1, "a", true}, false},
		{"differing int", Deps{1}, Deps{2}, true},
		{"differing string", Deps{"a"}, Deps{"b"}, true},
		{"same pointer", Deps{p}, Deps{p}, false},
		{"different pointer same contents", Deps{p}, Deps{&struct{ n int }{n: 1}}, true},
		{"same func", Deps{fn}, Deps{fn}, false},
		{"same slice header", Deps{sl}, Deps{sl}, false},
		{"different slice same contents", Deps{sl}, Deps{[]int{1, 2, 3}}, true},
		{"int vs int64", Deps{int(1)}, Deps{int64(1)}, true},
		{"nil element equal", Deps{nil}, Deps{nil}, false},
		{"nil vs value element", Deps{nil}, Deps{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, mismatch := depsChanged(tt.prev, tt.next)
			if changed != tt.changed {
				t.Errorf("depsChanged() = %v, want %v", changed, tt.changed)
			}
			if mismatch {
				t.Error("unexpected length mismatch flag")
			}
		})
	}
}

func TestSameValueSliceResliced(t *testing.T) {
	sl := []int{1, 2, 3}
	if sameValue(sl, sl[:2]) {
		t.Error("reslices with different lengths should differ")
	}
}

func TestSameValueUncomparable(t *testing.T) {
	// Struct values containing slices are not comparable; they must
	// be treated as never equal rather than panicking.
	type holder struct{ s []int }
	a := holder{s: []int{1}}
	if sameValue(a, a) {
		t.Error("uncomparable values should never compare equal")
	}
}

func TestDepsOfEmptyIsMountOnly(t *testing.T) {
	d := DepsOf()
	if d == nil {
		t.Fatal("DepsOf() should return a non-nil list")
	}
	if len(d) != 0 {
		t.Errorf("DepsOf() length = %d, want 0", len(d))
	}
}
