package cli

import (
	"github.com/spf13/cobra"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Display the market data tables currently in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().ShowRates(cmd.Context())
	},
}
