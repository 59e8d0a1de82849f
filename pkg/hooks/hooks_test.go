package hooks

import (
	"sync"
	"testing"
)

// fakeScheduler collects re-render requests.
type fakeScheduler struct {
	mu       sync.Mutex
	requests []*Instance
}

func (f *fakeScheduler) RequestRender(inst *Instance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, inst)
}

func (f *fakeScheduler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeScheduler) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
}

// fakeSink collects error reports.
type fakeSink struct {
	mu    sync.Mutex
	slots []int
	errs  []error
}

func (f *fakeSink) ReportError(_ *Instance, slot int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots = append(f.slots, slot)
	f.errs = append(f.errs, err)
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs)
}

// mustRender runs one render session, failing the test on error.
func mustRender(t *testing.T, inst *Instance, fn func(*Session)) EffectBatch {
	t.Helper()
	batch, err := RunRender(inst, fn)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return batch
}

func newTestInstance() (*Instance, *fakeScheduler, *fakeSink) {
	sched := &fakeScheduler{}
	sink := &fakeSink{}
	return NewInstance(nil, sched, sink), sched, sink
}
