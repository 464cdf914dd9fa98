package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emmjayh/SingWithMe/internal/device"
	"github.com/emmjayh/SingWithMe/internal/store"
)

func newCalibrateCmd() *cobra.Command {
	var configPath, deviceName, venueLabel, storePath string
	var durationSeconds float64

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Measure the room's noise floor and vocal peak, saving the result for venueLabel",
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

			eng.pipeline.StartCalibration(durationSeconds)
			time.Sleep(time.Duration(durationSeconds*1000)*time.Millisecond + 500*time.Millisecond)

			result := eng.pipeline.CalibrationResult()
			fmt.Printf("noise floor: %.1f dB, vocal peak: %.1f dB, valid: %v\n",
				result.NoiseFloorDb, result.VocalPeakDb, result.IsValid)

			if venueLabel != "" {
				db, err := store.Open(storePath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.Save(venueLabel, result); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a RuntimeConfig JSON file")
	cmd.Flags().StringVar(&deviceName, "device", "", "capture device name/ID substring")
	cmd.Flags().Float64Var(&durationSeconds, "duration", 10, "calibration run length in seconds")
	cmd.Flags().StringVar(&venueLabel, "venue", "", "save the result under this venue label")
	cmd.Flags().StringVar(&storePath, "store", "duet_calibration.db", "sqlite database path for saved profiles")
	return cmd
}
