package vision

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeEngine struct {
	contract ModelContract
	classes  int
	scores   []float32
	closed   atomic.Bool
}

func (f *fakeEngine) Contract() ModelContract { return f.contract }
func (f *fakeEngine) Classes() int            { return f.classes }
func (f *fakeEngine) Close() error {
	f.closed.Store(true)
	return nil
}
func (f *fakeEngine) Predict(*Tensor) ([]float32, error) {
	if f.closed.Load() {
		return nil, ErrEngineClosed
	}
	return f.scores, nil
}

func loaderFor(engines map[string]*fakeEngine) Loader {
	return func(path string) (Engine, error) {
		e, ok := engines[path]
		if !ok {
			return nil, errors.New("no such model")
		}
		return e, nil
	}
}

func TestModelHolderLoadAndSwap(t *testing.T) {
	a := &fakeEngine{classes: 7, contract: ModelContract{Layout: LayoutChannelLast, Width: 48, Height: 48, Channels: 1}}
	b := &fakeEngine{classes: 7, contract: ModelContract{Layout: LayoutChannelFirst, Width: 48, Height: 48, Channels: 3}}
	h := NewModelHolder(loaderFor(map[string]*fakeEngine{"a.onnx": a, "b.onnx": b}), 7)

	if h.IsLoaded() {
		t.Fatal("empty holder reports loaded")
	}
	if _, _, err := h.Acquire(); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}

	if _, err := h.Load("a.onnx"); err != nil {
		t.Fatalf("Load a: %v", err)
	}
	contract, err := h.Load("b.onnx")
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}
	if contract.Layout != LayoutChannelFirst {
		t.Fatalf("unexpected contract %v", contract)
	}
	if !a.closed.Load() {
		t.Fatal("replaced engine was not closed")
	}
	if got := h.Status(); !got.Loaded || got.Path != "b.onnx" || got.Classes != 7 {
		t.Fatalf("unexpected status %+v", got)
	}

	h.Teardown()
	if h.IsLoaded() || !b.closed.Load() {
		t.Fatal("teardown left the engine loaded")
	}
}

func TestModelHolderRejectsClassMismatch(t *testing.T) {
	good := &fakeEngine{classes: 7}
	bad := &fakeEngine{classes: 5}
	h := NewModelHolder(loaderFor(map[string]*fakeEngine{"good": good, "bad": bad}), 7)

	if _, err := h.Load("good"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Load("bad"); !errors.Is(err, ErrClassMismatch) {
		t.Fatalf("expected ErrClassMismatch, got %v", err)
	}
	if !bad.closed.Load() {
		t.Fatal("rejected engine was not closed")
	}
	if good.closed.Load() || h.Status().Path != "good" {
		t.Fatal("rejected load replaced the serving engine")
	}
	if _, err := h.Load("missing"); err == nil {
		t.Fatal("expected loader error")
	}
}

func TestModelHolderSwapWaitsForReaders(t *testing.T) {
	a := &fakeEngine{classes: 1}
	b := &fakeEngine{classes: 1}
	h := NewModelHolder(loaderFor(map[string]*fakeEngine{"a": a, "b": b}), 1)
	if _, err := h.Load("a"); err != nil {
		t.Fatal(err)
	}

	engine, release, err := h.Acquire()
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := h.Load("b"); err != nil {
			t.Errorf("Load b: %v", err)
		}
	}()

	if _, err := engine.Predict(&Tensor{}); err != nil {
		t.Fatalf("engine closed while acquired: %v", err)
	}
	release()
	wg.Wait()

	if !a.closed.Load() {
		t.Fatal("old engine not closed after release")
	}
}
