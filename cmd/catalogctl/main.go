package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storefront/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Storefront catalog tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnvFile()
	},
}

func main() {
	rootCmd.AddCommand(listCmd, syncCmd, tokenCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
