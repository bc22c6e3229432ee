package cli

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Serve(cmd.Context())
	},
}
