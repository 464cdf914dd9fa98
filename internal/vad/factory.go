package vad

// New constructs a Frontend for the named backend. "neural" loads
// modelPath; any other name (including "heuristic" or empty) returns
// the closed-form fallback, matching the ModelLoadFailed contract: a
// usable frontend is always returned, degraded quality at worst.
func New(backend, modelPath string) Frontend {
	f, _ := NewWithFallbackInfo(backend, modelPath)
	return f
}

// NewWithFallbackInfo is like New but also reports whether it had to
// fall back to the heuristic backend because the neural one failed to
// load, so the caller can log it.
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
