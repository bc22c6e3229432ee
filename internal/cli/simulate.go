package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"bond-rv-analyzer/internal/engine"
)

var (
	simulateName   string
	simulateCoupon string
	simulateCcy    string
	simulateTenor  int
	simulateRating string
	simulateSector string
	simulateSpread string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "分析单只债券并输出完整计算明细",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateSpread == "" {
			return errors.New("--spread 不能为空")
		}

		bond := engine.Bond{
			Name:       simulateName,
			CouponType: engine.CouponType(strings.ToUpper(simulateCoupon)),
			Currency:   simulateCcy,
			Tenor:      simulateTenor,
			Rating:     simulateRating,
			Sector:     simulateSector,
			SpreadText: simulateSpread,
		}
		return getApp().Simulate(cmd.Context(), bond)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateName, "name", "SIM BOND", "Bond name")
	simulateCmd.Flags().StringVar(&simulateCoupon, "coupon", "FIXED", "Coupon type (FIXED or FLOAT)")
	simulateCmd.Flags().StringVar(&simulateCcy, "ccy", "USD", "Bond currency")
	simulateCmd.Flags().IntVar(&simulateTenor, "tenor", 5, "Tenor in years")
	simulateCmd.Flags().StringVar(&simulateRating, "rating", "A", "Credit rating")
	simulateCmd.Flags().StringVar(&simulateSector, "sector", "TECH", "Sector")
	simulateCmd.Flags().StringVar(&simulateSpread, "spread", "", "Quoted spread, e.g. 'T+50bps'")
}
