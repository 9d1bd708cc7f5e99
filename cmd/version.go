package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hristov111/companion/pkg/companionserver"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the service name and version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", companionserver.ServiceName, companionserver.Version)
		},
	}

	rootCmd.AddCommand(cmd)
}
