package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mapctl",
		Short:         "Map intake records into appointment requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(mapCmd())
	rootCmd.AddCommand(schemaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
