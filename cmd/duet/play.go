package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emmjayh/SingWithMe/internal/device"
)

func newPlayCmd() *cobra.Command {
	var configPath, deviceName string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the configured audio device and run the accompaniment engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer eng.reporter.Close(0)

			dev := device.New(device.Config{
				DeviceName:    deviceName,
				SampleRateHz:  eng.ctx.Config.Fs(),
				BufferSamples: eng.ctx.Config.N(),
			}, eng.pipeline)

			if err := dev.Start(); err != nil {
				return err
			}
			defer dev.Stop()

			eng.pipeline.Play()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			eng.pipeline.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a RuntimeConfig JSON file")
	cmd.Flags().StringVar(&deviceName, "device", "", "capture device name/ID substring (default: system default)")
	return cmd
}
