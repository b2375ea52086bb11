package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/augment"
	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/printer"
)

var printCommentary bool

// printCmd represents the print command.
var printCmd = newPrintCmd()

func newPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <job>",
		Short: "Print the WGSL text of a shader job",
		Long: `Print the current WGSL text of a shader job. With commentary enabled,
each marker documents the transformation it stands for as comment lines
above the affected code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := jobStore.LoadJob(m.Path(args[0]))
			if err != nil {
				return err
			}

			mod, err := augment.UnmarshalModule(job.Tree)
			if err != nil {
				return err
			}

			p := printer.New(printer.Options{OmitCommentary: !printCommentary})
			cmd.Print(p.PrintModule(mod))

			return nil
		},
	}

	cmd.Flags().BoolVar(&printCommentary, commentaryFlagName, true, "emit marker commentary comments")

	return cmd
}

func init() {
	rootCmd.AddCommand(printCmd)
}
