package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emmjayh/SingWithMe/internal/device"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available capture devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := device.Enumerate()
			if err != nil {
				return err
			}
			for _, info := range infos {
				marker := ""
				if info.IsDefault {
					marker = " (default)"
				}
				fmt.Printf("%s\t%s%s\n", info.ID, info.Name, marker)
			}
			return nil
		},
	}
}
