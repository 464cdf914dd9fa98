package pitch

import (
	"os"

	tflite "github.com/tphakala/go-tflite"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

// probabilityBins is the CREPE-tiny output width: one probability per
// pitch bin spanning its supported range.
const probabilityBins = 360

// Neural runs a CREPE-tiny-style graph: audio[1,1024] -> probabilities[360].
// The returned confidence is the max over the bin vector.
type Neural struct {
	interpreter *tflite.Interpreter
	model       *tflite.Model
}

func NewNeural(modelPath string) (*Neural, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, errors.New(err).
			Component("pitch").
			Category(errors.CategoryFileIO).
			Context("path", modelPath).
			Build()
	}

	model := tflite.NewModel(data)
	if model == nil {
		return nil, errors.Newf("pitch: cannot load tflite model at %s", modelPath).
			Component("pitch").
			Category(errors.CategoryConfiguration).
			Build()
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(1)

	interp := tflite.NewInterpreter(model, options)
	if interp == nil {
		model.Delete()
		return nil, errors.Newf("pitch: cannot create interpreter for %s", modelPath).
			Component("pitch").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if status := interp.AllocateTensors(); status != tflite.OK {
		interp.Delete()
		model.Delete()
		return nil, errors.Newf("pitch: tensor allocation failed for %s", modelPath).
			Component("pitch").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return &Neural{interpreter: interp, model: model}, nil
}

func (n *Neural) SetSampleRate(int) {}
func (n *Neural) Reset()            {}

func (n *Neural) ProcessHop(samples []float32) float32 {
	if n == nil || n.interpreter == nil || len(samples) != HopSamples {
		return 0
	}

	audioTensor := n.interpreter.GetInputTensor(0)
	if audioTensor == nil {
		return 0
	}
	copy(audioTensor.Float32s(), samples)

	if status := n.interpreter.Invoke(); status != tflite.OK {
		return 0
	}

	probTensor := n.interpreter.GetOutputTensor(0)
	if probTensor == nil {
		return 0
	}
	probs := probTensor.Float32s()
	if len(probs) == 0 {
		return 0
	}

	max := probs[0]
	for _, p := range probs[1:] {
		if p > max {
			max = p
		}
	}
	return clampF32(max)
}

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
