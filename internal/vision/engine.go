package vision

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var ErrEngineClosed = errors.New("inference engine closed")

// Engine scores one tensor and returns one value per class.
type Engine interface {
	Contract() ModelContract
	Classes() int
	Predict(t *Tensor) ([]float32, error)
	Close() error
}

// Loader builds an engine from a model file.
type Loader func(path string) (Engine, error)

var envMu sync.Mutex

// initEnvironment loads the ONNX Runtime shared library once per process.
func initEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("onnx init environment: %w", err)
	}
	return nil
}

// ONNXEngine holds one session with preallocated input and output tensors.
// A session run is not safe for concurrent use; Predict serializes callers.
type ONNXEngine struct {
	mu sync.Mutex

	path     string
	contract ModelContract
	classes  int

	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	closed  bool
}

// ONNXLoader returns a Loader that reads the model's declared shape and
// resolves dynamic dims against target.
func ONNXLoader(libPath string, target Size) Loader {
	return func(path string) (Engine, error) {
		e, err := NewONNXEngine(path, libPath, target)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

func NewONNXEngine(path, libPath string, target Size) (*ONNXEngine, error) {
	if err := initEnvironment(libPath); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("onnx get input/output info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("onnx model has no inputs or outputs")
	}

	contract := ParseContract([]int64(inputs[0].Dimensions), target, declaresRescaling(path))

	outShape := make([]int64, len(outputs[0].Dimensions))
	for i, d := range outputs[0].Dimensions {
		if d <= 0 {
			d = 1
		}
		outShape[i] = d
	}
	classes := int(outShape[len(outShape)-1])

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(contract.Shape()...))
	if err != nil {
		return nil, fmt.Errorf("onnx new input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(outShape...))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("onnx new output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(path,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		output.Destroy()
		input.Destroy()
		return nil, fmt.Errorf("onnx new session: %w", err)
	}

	return &ONNXEngine{
		path:     path,
		contract: contract,
		classes:  classes,
		session:  session,
		input:    input,
		output:   output,
	}, nil
}

// declaresRescaling looks for a hint that the graph divides by 255 itself.
// Keras exports with a Rescaling layer carry it in the description; other
// exporters can set the "internal_rescaling" custom metadata key.
func declaresRescaling(path string) bool {
	meta, err := ort.GetModelMetadata(path)
	if err != nil {
		return false
	}
	defer meta.Destroy()

	if v, ok, err := meta.LookupCustomMetadataMap("internal_rescaling"); err == nil && ok {
		return strings.EqualFold(v, "true") || v == "1"
	}
	if desc, err := meta.GetDescription(); err == nil {
		return strings.Contains(strings.ToLower(desc), "rescaling")
	}
	return false
}

func (e *ONNXEngine) Contract() ModelContract { return e.contract }

func (e *ONNXEngine) Classes() int { return e.classes }

func (e *ONNXEngine) Predict(t *Tensor) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}

	in := e.input.GetData()
	if len(in) != len(t.Data) {
		return nil, fmt.Errorf("%w: input tensor holds %d, got %d", ErrShapeMismatch, len(in), len(t.Data))
	}
	copy(in, t.Data)
	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	out := e.output.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

func (e *ONNXEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	var errs []error
	if err := e.session.Destroy(); err != nil {
		errs = append(errs, err)
	}
	if err := e.output.Destroy(); err != nil {
		errs = append(errs, err)
	}
	if err := e.input.Destroy(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
