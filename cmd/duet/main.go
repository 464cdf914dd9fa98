// Command duet is the CLI front end for the karaoke accompaniment
// engine: load a config, open a device, and run the pipeline, with a
// companion HTTP control plane and optional MQTT broadcast.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emmjayh/SingWithMe/internal/logging"
)

func main() {
	logging.Init()

	root := &cobra.Command{
		Use:   "duet",
		Short: "Real-time karaoke accompaniment engine",
	}

	root.AddCommand(
		newPlayCmd(),
		newCalibrateCmd(),
		newServeCmd(),
		newDevicesCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
