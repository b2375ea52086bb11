package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge [reports...]",
		Short: "Merge report files into a single one",
		Long:  "Merge reduction reports from multiple runs into the output report file.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var merged []m.Report

			for _, path := range parsePaths(args) {
				reports, err := reportStore.LoadReports(path)
				if err != nil {
					return err
				}

				merged = append(merged, reports...)
			}

			return reportStore.SaveReports(m.Path(viper.GetString(outputFlagName)), merged)
		},
	}
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
