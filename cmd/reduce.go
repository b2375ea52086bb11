package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/domain"
	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

var reduceParallel int
var reduceMaxRounds uint
var reduceOracle []string

// reduceCmd represents the reduce command.
var reduceCmd = newReduceCmd()

func newReduceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reduce [paths...]",
		Short: "Reduce shader jobs against an oracle",
		Long:  reduceLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths := parsePaths(args)
			oracle := viper.GetStringSlice(oracleConfigKey)
			reportsPath := m.Path(viper.GetString(outputFlagName))
			threads := viper.GetInt(reduceParallelConfigKey)

			if len(oracle) == 0 {
				return fmt.Errorf("no oracle command given (use --%s or %s in %s)", oracleFlagName, oracleConfigKey, configFileName)
			}

			ui.DisplayConcurrencyInfo(ctx, threads, len(paths))

			reports, err := workflow.Reduce(ctx, domain.ReduceArgs{
				Paths:     paths,
				Reports:   reportsPath,
				Oracle:    oracle,
				Threads:   uint(threads),
				MaxRounds: uint(viper.GetInt(maxRoundsConfigKey)),
			})

			for _, report := range reports {
				ui.DisplayReport(ctx, report)
			}

			ui.DisplayReductionScore(ctx, domain.ScoreReports(reports))

			return err
		},
	}

	configureReduceFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(reduceCmd)
}

func configureReduceFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&reduceParallel, reduceParallelFlag, "p", viper.GetInt(reduceParallelConfigKey), "number of jobs reduced in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(reduceParallelFlag), reduceParallelConfigKey)

	cmd.Flags().UintVar(&reduceMaxRounds, maxRoundsFlagName, uint(viper.GetInt(maxRoundsConfigKey)), "cap on accepted reversals per job (0 = reduce to fixpoint)")
	bindFlagToConfig(cmd.Flags().Lookup(maxRoundsFlagName), maxRoundsConfigKey)

	cmd.Flags().StringSliceVar(&reduceOracle, oracleFlagName, viper.GetStringSlice(oracleConfigKey), "oracle command and arguments (candidate path is appended)")
	bindFlagToConfig(cmd.Flags().Lookup(oracleFlagName), oracleConfigKey)
}
