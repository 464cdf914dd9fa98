// Package device adapts a physical audio interface to the pipeline's
// audio-callback contract: one mic input channel in, stereo out, plus
// whatever extra output channels the interface exposes. It is the only
// package in this module that talks to gen2brain/malgo directly.
package device

import (
	"encoding/binary"
	"math"
	"runtime"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

// Processor is the subset of *pipeline.Pipeline the device callback
// needs; narrowed so this package's tests can fake it without dragging
// in the whole pipeline.
type Processor interface {
	Process(mic []float32, n int, outputs [][]float32)
}

// Config describes the duplex stream to open. DeviceName selects a
// capture device by name/ID substring ("" or "default" picks the
// system default); playback always goes to the system default.
type Config struct {
	DeviceName    string
	SampleRateHz  int
	BufferSamples int
	OutputChannels int // 2 for stereo; >2 feeds mic on the extra channels
}

// Device owns one malgo duplex stream and the byte<->float32 scratch
// buffers it's converted through. Nothing here allocates once Start has
// returned; onAudio reuses the same buffers every callback.
type Device struct {
	cfg  Config
	proc Processor

	malgoCtx *malgo.AllocatedContext
	dev      *malgo.Device

	mu      sync.Mutex
	running bool

	micBuf     []float32
	outChans   [][]float32
	outFloat32 []float32 // interleaved scratch for the playback byte buffer
}

// New builds a Device bound to proc; call Start to open the stream.
func New(cfg Config, proc Processor) *Device {
	if cfg.OutputChannels < 2 {
		cfg.OutputChannels = 2
	}
	return &Device{cfg: cfg, proc: proc}
}

func backendsForPlatform() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa, malgo.BackendPulseAudio}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	default:
		return []malgo.Backend{malgo.BackendNull}
	}
}

// Start opens the duplex device and begins delivering callbacks into
// proc.Process. Must only be called once; call Stop before a second
// Start — the same audio-thread-quiesced rule that guards
// Configure/UpdateBufferSize on the pipeline also applies here:
// Configure/UpdateBufferSize must not run concurrently with an open
// Device.
func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.Newf("device: already running").
			Component("device").
			Category(errors.CategoryState).
			Build()
	}

	ctx, err := malgo.InitContext(backendsForPlatform(), malgo.ContextConfig{}, nil)
	if err != nil {
		return errors.New(err).
			Component("device").
			Category(errors.CategoryDevice).
			Context("operation", "init_context").
			Build()
	}

	captureInfo, err := selectCaptureDevice(ctx, d.cfg.DeviceName)
	if err != nil {
		_ = ctx.Uninit()
		return err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.SampleRate = uint32(d.cfg.SampleRateHz)
	deviceConfig.PeriodSizeInFrames = uint32(d.cfg.BufferSamples)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.Capture.DeviceID = captureInfo.ID.Pointer()
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(d.cfg.OutputChannels)

	d.micBuf = make([]float32, d.cfg.BufferSamples)
	d.outChans = make([][]float32, d.cfg.OutputChannels)
	for i := range d.outChans {
		d.outChans[i] = make([]float32, d.cfg.BufferSamples)
	}
	d.outFloat32 = make([]float32, d.cfg.BufferSamples*d.cfg.OutputChannels)

	callbacks := malgo.DeviceCallbacks{Data: d.onAudio}
	dev, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		return errors.New(err).
			Component("device").
			Category(errors.CategoryDevice).
			Context("operation", "init_device").
			Build()
	}

	if err := dev.Start(); err != nil {
		dev.Uninit()
		_ = ctx.Uninit()
		return errors.New(err).
			Component("device").
			Category(errors.CategoryDevice).
			Context("operation", "start_device").
			Build()
	}

	d.malgoCtx = ctx
	d.dev = dev
	d.running = true
	return nil
}

// Stop halts the stream and releases the native device/context. Safe to
// call on an already-stopped Device.
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	_ = d.dev.Stop()
	d.dev.Uninit()
	_ = d.malgoCtx.Uninit()
	d.dev = nil
	d.malgoCtx = nil
	d.running = false
}

// onAudio is the malgo.DataProc. It runs on malgo's own real-time
// thread: no allocation, no logging above trace level, no locking
// beyond what Pipeline.Process itself does internally.
func (d *Device) onAudio(output, input []byte, frameCount uint32) {
	n := int(frameCount)
	if n > len(d.micBuf) {
		n = len(d.micBuf)
	}

	bytesToFloat32Mono(input, d.micBuf[:n])

	for _, ch := range d.outChans {
		for i := 0; i < n; i++ {
			ch[i] = 0
		}
	}

	d.proc.Process(d.micBuf[:n], n, d.outChans)

	interleaveFloat32(d.outChans, n, d.outFloat32)
	float32ToBytes(d.outFloat32[:n*len(d.outChans)], output)
}

func bytesToFloat32Mono(src []byte, dst []float32) {
	count := len(src) / 4
	if count > len(dst) {
		count = len(dst)
	}
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint32(src[i*4:])
		dst[i] = math.Float32frombits(bits)
	}
}

func interleaveFloat32(channels [][]float32, n int, dst []float32) {
	numCh := len(channels)
	for i := 0; i < n; i++ {
		for c := 0; c < numCh; c++ {
			dst[i*numCh+c] = channels[c][i]
		}
	}
}

func float32ToBytes(src []float32, dst []byte) {
	count := len(src)
	if count*4 > len(dst) {
		count = len(dst) / 4
	}
	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(src[i]))
	}
}
