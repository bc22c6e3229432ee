package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"bond-rv-analyzer/internal/app"
)

var (
	analyzeInput string
	analyzeCSV   string
	analyzePNG   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a bond batch from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeInput == "" {
			return errors.New("--input is required")
		}

		return getApp().Analyze(cmd.Context(), app.AnalyzeOptions{
			InputPath: analyzeInput,
			CSVPath:   analyzeCSV,
			PNGPath:   analyzePNG,
		})
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "Path to JSON file with the bond batch")
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "Path to write results as CSV")
	analyzeCmd.Flags().StringVar(&analyzePNG, "png", "", "Path to write excess yield chart as PNG")
}
