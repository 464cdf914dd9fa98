package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emmjayh/SingWithMe/internal/control"
	"github.com/emmjayh/SingWithMe/internal/device"
	"github.com/emmjayh/SingWithMe/internal/mqttpublish"
)

func newServeCmd() *cobra.Command {
	var configPath, deviceName, controlAddr, mqttBroker, mqttTopic string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the accompaniment engine with the HTTP control plane and optional MQTT broadcast",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer eng.reporter.Close(0)

			eng.pipeline.RegisterMetrics(prometheus.DefaultRegisterer)

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

			ctrl := control.New(eng.pipeline)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			group, groupCtx := errgroup.WithContext(ctx)

			group.Go(func() error {
				if err := ctrl.ListenAndServe(controlAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			if mqttBroker != "" {
				pub, err := mqttpublish.Connect(mqttpublish.Config{
					BrokerURL: mqttBroker,
					ClientID:  "duet-" + eng.pipeline.ID().String(),
					Topic:     mqttTopic,
				})
				if err != nil {
					return err
				}
				defer pub.Close()
				group.Go(func() error { return pub.Run(groupCtx, eng.pipeline) })
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sig
				eng.pipeline.Stop()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				_ = ctrl.Shutdown(shutdownCtx)
				cancel()
			}()

			return group.Wait()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a RuntimeConfig JSON file")
	cmd.Flags().StringVar(&deviceName, "device", "", "capture device name/ID substring")
	cmd.Flags().StringVar(&controlAddr, "control-addr", ":8089", "HTTP control plane listen address")
	cmd.Flags().StringVar(&mqttBroker, "mqtt-broker", "", "MQTT broker URL (disabled if empty)")
	cmd.Flags().StringVar(&mqttTopic, "mqtt-topic", "duet/state", "MQTT topic for live state broadcast")
	return cmd
}
