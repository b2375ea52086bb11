package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

var listRecursive bool

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List markers in shader jobs",
		Long:  listLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var infos []m.MarkerInfo

			for _, path := range parsePaths(args) {
				files, err := jobStore.ListJobs(path, listRecursive)
				if err != nil {
					return ui.DisplayMarkerScan(ctx, nil, err)
				}

				for _, file := range files {
					job, err := jobStore.LoadJob(file.Path)
					if err != nil {
						return ui.DisplayMarkerScan(ctx, nil, err)
					}

					found, err := scanner.ScanMarkers(ctx, job)
					if err != nil {
						return ui.DisplayMarkerScan(ctx, nil, err)
					}

					infos = append(infos, found...)
				}
			}

			return ui.DisplayMarkerScan(ctx, infos, nil)
		},
	}

	cmd.Flags().BoolVarP(&listRecursive, recursiveFlagName, "r", true, "descend into subdirectories")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
