package media

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/tphakala/flac"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

// Load decodes a backing/guide track at path and produces a Buffer
// resampled to fs, resampling happening once at load time rather than
// per callback. The format is selected by extension: ".flac" goes
// through the FLAC decoder, everything else is read as WAV.
// FileNotFound and decode failures both surface as a plain error; the
// caller (Pipeline) is responsible for clearing only the affected track
// and leaving the other one and the transport untouched.
func Load(path string, fs int) (Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Buffer{}, errors.New(err).
			Component("media").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".flac") {
		return loadFlac(f, path, fs)
	}
	return loadWav(f, path, fs)
}

func loadWav(f *os.File, path string, fs int) (Buffer, error) {
	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return Buffer{}, errors.Newf("media: %s is not a valid WAV file", path).
			Component("media").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return Buffer{}, errors.Newf("media: unsupported channel count %d in %s", decoder.NumChans, path).
			Component("media").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	divisor, err := bitDepthDivisor(int(decoder.BitDepth))
	if err != nil {
		return Buffer{}, errors.New(err).
			Component("media").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Buffer{}, errors.New(err).
			Component("media").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	numChans := int(decoder.NumChans)
	channels := make([][]float32, numChans)
	frames := len(buf.Data) / numChans
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	for i, sample := range buf.Data {
		channels[i%numChans][i/numChans] = float32(sample) / divisor
	}

	return NewBuffer(channels, int(decoder.SampleRate), fs)
}

// loadFlac decodes a FLAC file frame by frame, de-interleaving into one
// []float32 per channel the same way loadWav does for PCM WAV data.
func loadFlac(f *os.File, path string, fs int) (Buffer, error) {
	decoder, err := flac.NewDecoder(f)
	if err != nil {
		return Buffer{}, errors.New(err).
			Component("media").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	if decoder.NChannels != 1 && decoder.NChannels != 2 {
		return Buffer{}, errors.Newf("media: unsupported channel count %d in %s", decoder.NChannels, path).
			Component("media").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	divisor, err := bitDepthDivisor(decoder.BitsPerSample)
	if err != nil {
		return Buffer{}, errors.New(err).
			Component("media").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	numChans := decoder.NChannels
	channels := make([][]float32, numChans)
	bytesPerSample := decoder.BitsPerSample / 8

	for {
		frame, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Buffer{}, errors.New(err).
				Component("media").
				Category(errors.CategoryFileIO).
				Context("path", path).
				Build()
		}

		stride := bytesPerSample * numChans
		for i := 0; i+stride <= len(frame); i += stride {
			for ch := 0; ch < numChans; ch++ {
				off := i + ch*bytesPerSample
				var sample int32
				switch decoder.BitsPerSample {
				case 16:
					sample = int32(int16(binary.LittleEndian.Uint16(frame[off:])))
				case 24:
					sample = int32(frame[off]) | int32(frame[off+1])<<8 | int32(frame[off+2])<<16
				case 32:
					sample = int32(binary.LittleEndian.Uint32(frame[off:]))
				}
				channels[ch] = append(channels[ch], float32(sample)/divisor)
			}
		}
	}

	return NewBuffer(channels, decoder.SampleRate, fs)
}

func bitDepthDivisor(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 32768, nil
	case 24:
		return 8388608, nil
	case 32:
		return 2147483648, nil
	default:
		return 0, errors.Newf("media: unsupported bit depth %d", bitDepth).
			Component("media").
			Category(errors.CategoryValidation).
			Build()
	}
}
