// Package cmd provides the root command and CLI setup for wgslfuzz.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/adapter"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/controller"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/domain"
	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

var fsAdapter adapter.JobFSAdapter
var jobStore adapter.JobStore
var oracleAdapter adapter.OracleAdapter
var reportStore adapter.ReportStore
var orchestrator domain.Orchestrator
var scanner domain.Scanner
var workflow domain.Workflow
var ui controller.UI

// reportsOutputFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputFlag string

// verboseFlag enables debug logging.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalJobFSAdapter()
	jobStore = adapter.NewLocalJobStore(fsAdapter)
	oracleAdapter = adapter.NewLocalOracleAdapter(oracleTimeout())
	reportStore = adapter.NewYAMLReportStore(fsAdapter)
	orchestrator = domain.NewOrchestrator(fsAdapter, oracleAdapter)
	scanner = domain.NewScanner(jobStore)
	workflow = domain.NewWorkflow(
		jobStore,
		reportStore,
		orchestrator,
	)
}

const jobPathsHelp = `Job paths may name .json job files or directories containing them:
  - shader.json          a single job
  - jobs/                every job under the directory
  - jobs/ more/a.json    several sources at once`

const rootLongDescription = `wgslfuzz-reduce shrinks fuzzer-generated WGSL shader jobs. Generated
shaders carry reversible mutation markers; the reducer undoes markers one at
a time, keeping a reversal only when an oracle command confirms the smaller
shader still exhibits the behavior under investigation.

` + jobPathsHelp

const reduceLongDescription = `Reduce the given shader jobs against an interestingness oracle.

The oracle is run with the candidate shader path as its final argument and
must exit zero while the behavior of interest is still present.

` + jobPathsHelp

const listLongDescription = `List the mutation markers present in shader jobs.

` + jobPathsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wgslfuzz-reduce",
		Short: "WGSL shader job reducer",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output file for reduction reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", viper.GetString(logFilenameKey), "log file location")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("log-file"), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
