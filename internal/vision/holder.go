package vision

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"moodmatch/internal/logging"
	"moodmatch/internal/metrics"
)

var (
	ErrModelNotLoaded = errors.New("model not loaded")
	ErrClassMismatch  = errors.New("model class count does not match label set")
)

type modelSlot struct {
	mu       sync.RWMutex
	engine   Engine
	closed   bool
	path     string
	loadedAt time.Time
}

// ModelStatus describes the engine currently serving predictions.
type ModelStatus struct {
	Loaded   bool          `json:"is_loaded"`
	Path     string        `json:"path,omitempty"`
	Layout   string        `json:"layout,omitempty"`
	Shape    []int64       `json:"input_shape,omitempty"`
	Classes  int           `json:"classes,omitempty"`
	Rescale  bool          `json:"rescaling"`
	Fallback bool          `json:"contract_fallback"`
	LoadedAt time.Time     `json:"loaded_at,omitempty"`
	Contract ModelContract `json:"-"`
}

// ModelHolder owns the loaded engine. Readers acquire it for the duration of
// one prediction; Load swaps in a validated replacement and closes the old
// engine once its readers have released it.
type ModelHolder struct {
	current atomic.Pointer[modelSlot]
	loader  Loader
	labels  int
	loadMu  sync.Mutex
}

// NewModelHolder creates an empty holder. labels is the size of the label
// enumeration every model must produce scores for.
func NewModelHolder(loader Loader, labels int) *ModelHolder {
	return &ModelHolder{loader: loader, labels: labels}
}

func (h *ModelHolder) Load(path string) (ModelContract, error) {
	h.loadMu.Lock()
	defer h.loadMu.Unlock()

	engine, err := h.loader(path)
	if err != nil {
		metrics.ModelLoads.WithLabelValues("error").Inc()
		return ModelContract{}, fmt.Errorf("load model failed: %w", err)
	}
	if engine.Classes() != h.labels {
		_ = engine.Close()
		metrics.ModelLoads.WithLabelValues("rejected").Inc()
		return ModelContract{}, fmt.Errorf("%w: model has %d, labels %d", ErrClassMismatch, engine.Classes(), h.labels)
	}

	contract := engine.Contract()
	if contract.Fallback {
		logging.Warn().Str("path", path).Str("contract", contract.String()).
			Msg("model input shape not recognised, assuming channel-last")
	}

	old := h.current.Swap(&modelSlot{engine: engine, path: path, loadedAt: time.Now()})
	h.retire(old)

	metrics.ModelLoads.WithLabelValues("ok").Inc()
	metrics.SetModelLoaded(true)
	metrics.SetContractFallback(contract.Fallback)
	logging.Info().Str("path", path).Str("contract", contract.String()).Int("classes", engine.Classes()).
		Msg("model loaded")
	return contract, nil
}

func (h *ModelHolder) IsLoaded() bool {
	return h.current.Load() != nil
}

// Acquire returns the current engine and a release func, or ErrModelNotLoaded.
// The engine stays open until release is called.
func (h *ModelHolder) Acquire() (Engine, func(), error) {
	for {
		slot := h.current.Load()
		if slot == nil {
			return nil, nil, ErrModelNotLoaded
		}
		slot.mu.RLock()
		if slot.closed {
			slot.mu.RUnlock()
			continue
		}
		return slot.engine, slot.mu.RUnlock, nil
	}
}

func (h *ModelHolder) Status() ModelStatus {
	slot := h.current.Load()
	if slot == nil {
		return ModelStatus{}
	}
	c := slot.engine.Contract()
	return ModelStatus{
		Loaded:   true,
		Path:     slot.path,
		Layout:   c.Layout.String(),
		Shape:    c.Shape(),
		Classes:  slot.engine.Classes(),
		Rescale:  c.Rescaling,
		Fallback: c.Fallback,
		LoadedAt: slot.loadedAt,
		Contract: c,
	}
}

// Teardown unloads the current engine. Later predictions see ErrModelNotLoaded.
func (h *ModelHolder) Teardown() {
	h.loadMu.Lock()
	defer h.loadMu.Unlock()
	h.retire(h.current.Swap(nil))
	metrics.SetModelLoaded(false)
}

func (h *ModelHolder) retire(slot *modelSlot) {
	if slot == nil {
		return
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.closed = true
	if err := slot.engine.Close(); err != nil {
		logging.Warn().Err(err).Str("path", slot.path).Msg("close retired model failed")
	}
}
