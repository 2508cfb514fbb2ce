package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/space-travel-booking/internal/config"
)

func newRootCmd() *cobra.Command {
	var envFiles []string
	root := &cobra.Command{
		Use:           "space-travel",
		Short:         "Space travel booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv(envFiles...)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	root.AddCommand(newServeCmd(), newCatalogCmd(), newQuoteCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
