package vad

import (
	"os"

	tflite "github.com/tphakala/go-tflite"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

// stateLen is the flattened size of the [2,1,128] recurrent state the
// model owns and rewrites every call.
const stateLen = 2 * 1 * 128

// Neural runs the external VAD graph: {audio[1,160], state[2,1,128],
// sample_rate[i64]} -> {probability[1], new_state[2,1,128]}. The
// load/allocate/invoke lifecycle is the standard go-tflite interpreter
// sequence: load model bytes, build an interpreter, allocate tensors
// once, then reuse the same tensors across every Invoke.
type Neural struct {
	interpreter *tflite.Interpreter
	model       *tflite.Model
	state       [stateLen]float32
	sampleRate  int64
}

// NewNeural loads a tflite model from path and allocates its tensors.
func NewNeural(modelPath string) (*Neural, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, errors.New(err).
			Component("vad").
			Category(errors.CategoryFileIO).
			Context("path", modelPath).
			Build()
	}

	model := tflite.NewModel(data)
	if model == nil {
		return nil, errors.Newf("vad: cannot load tflite model at %s", modelPath).
			Component("vad").
			Category(errors.CategoryConfiguration).
			Build()
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(1)

	interp := tflite.NewInterpreter(model, options)
	if interp == nil {
		model.Delete()
		return nil, errors.Newf("vad: cannot create interpreter for %s", modelPath).
			Component("vad").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if status := interp.AllocateTensors(); status != tflite.OK {
		interp.Delete()
		model.Delete()
		return nil, errors.Newf("vad: tensor allocation failed for %s", modelPath).
			Component("vad").
			Category(errors.CategoryConfiguration).
			Build()
	}

	n := &Neural{interpreter: interp, model: model, sampleRate: 16000}
	return n, nil
}

func (n *Neural) SetSampleRate(fm int) { n.sampleRate = int64(fm) }

func (n *Neural) Reset() {
	for i := range n.state {
		n.state[i] = 0
	}
}

// ProcessFrame feeds one 10 ms frame through the graph and writes back
// the returned state for the next call. Any backend failure — wrong
// frame length, a nil tensor, a failed Invoke — collapses to a score of
// 0 with state left untouched.
func (n *Neural) ProcessFrame(samples []float32) float32 {
	if n == nil || n.interpreter == nil || len(samples) != FrameSamples {
		return 0
	}

	audioTensor := n.interpreter.GetInputTensor(0)
	stateTensor := n.interpreter.GetInputTensor(1)
	srTensor := n.interpreter.GetInputTensor(2)
	if audioTensor == nil || stateTensor == nil || srTensor == nil {
		return 0
	}

	copy(audioTensor.Float32s(), samples)
	copy(stateTensor.Float32s(), n.state[:])
	srTensor.Int64s()[0] = n.sampleRate

	if status := n.interpreter.Invoke(); status != tflite.OK {
		return 0
	}

	probTensor := n.interpreter.GetOutputTensor(0)
	newStateTensor := n.interpreter.GetOutputTensor(1)
	if probTensor == nil || newStateTensor == nil {
		return 0
	}

	copy(n.state[:], newStateTensor.Float32s())
	prob := probTensor.Float32s()
	if len(prob) == 0 {
		return 0
	}
	return clampF32(prob[0])
}

// Close releases the interpreter and model. Safe to call once, after the
// frontend is no longer reachable from the audio thread.
func (n *Neural) Close() {
	if n.interpreter != nil {
		n.interpreter.Delete()
		n.interpreter = nil
	}
	if n.model != nil {
		n.model.Delete()
		n.model = nil
	}
}

func clampF32(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
