package pitch

// New constructs a Frontend for the named backend, falling back to the
// heuristic autocorrelation backend whenever the neural one can't load,
// mirroring vad.New.
func New(backend, modelPath string) Frontend {
	f, _ := NewWithFallbackInfo(backend, modelPath)
	return f
}

func NewWithFallbackInfo(backend, modelPath string) (Frontend, error) {
	if backend == "neural" && modelPath != "" {
		n, err := NewNeural(modelPath)
		if err == nil {
			return n, nil
		}
		return NewHeuristic(), err
	}
	return NewHeuristic(), nil
}
