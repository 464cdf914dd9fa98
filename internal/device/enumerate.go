package device

import (
	"strings"

	"github.com/gen2brain/malgo"

	"github.com/emmjayh/SingWithMe/internal/errors"
)

// Info describes one capture device for the `duet devices` CLI and for
// Start's device selection.
type Info struct {
	Name      string
	ID        string
	IsDefault bool
}

// Enumerate lists the system's capture devices. Opens and closes its
// own malgo context; cheap enough to call from a CLI command but not
// from the audio thread.
func Enumerate() ([]Info, error) {
	ctx, err := malgo.InitContext(backendsForPlatform(), malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, errors.New(err).
			Component("device").
			Category(errors.CategoryDevice).
			Context("operation", "init_context").
			Build()
	}
	defer func() { _ = ctx.Uninit() }()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, errors.New(err).
			Component("device").
			Category(errors.CategoryDevice).
			Context("operation", "enumerate_devices").
			Build()
	}

	out := make([]Info, 0, len(infos))
	for i := range infos {
		out = append(out, Info{
			Name:      infos[i].Name(),
			ID:        infos[i].ID.String(),
			IsDefault: infos[i].IsDefault == 1,
		})
	}
	return out, nil
}

// selectCaptureDevice resolves name to a concrete malgo.DeviceInfo:
// "" or "default" picks the system default, otherwise an exact or
// substring name match.
func selectCaptureDevice(ctx *malgo.AllocatedContext, name string) (*malgo.DeviceInfo, error) {
	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, errors.New(err).
			Component("device").
			Category(errors.CategoryDevice).
			Context("operation", "enumerate_devices").
			Build()
	}
	if len(infos) == 0 {
		return nil, errors.Newf("device: no capture devices found").
			Component("device").
			Category(errors.CategoryDevice).
			Build()
	}

	if name == "" || name == "default" {
		for i := range infos {
			if infos[i].IsDefault == 1 {
				return &infos[i], nil
			}
		}
		return &infos[0], nil
	}

	for i := range infos {
		if infos[i].Name() == name {
			return &infos[i], nil
		}
	}
	for i := range infos {
		if strings.Contains(infos[i].Name(), name) {
			return &infos[i], nil
		}
	}

	return nil, errors.Newf("device: no capture device matching %q", name).
		Component("device").
		Category(errors.CategoryValidation).
		Context("device_name", name).
		Build()
}
