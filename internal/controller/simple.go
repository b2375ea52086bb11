package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayMarkerScan prints the scanned markers or an error.
func (s *SimpleUI) DisplayMarkerScan(ctx context.Context, infos []m.MarkerInfo, err error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err != nil {
		s.printf("scan error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderMarkerTable(infos))

	return nil
}

func renderMarkerTable(infos []m.MarkerInfo) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Kind", "Function", "Reversible", "Code"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	reversibleCount := 0

	for _, info := range infos {
		reversible := ""
		if info.Reversible {
			reversible = "yes"

			reversibleCount++
		}

		table.Append([]string{
			fmt.Sprintf("%d", info.ID),
			string(info.Kind),
			info.Function,
			reversible,
			info.Snippet,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(infos)),
		"",
		"",
		fmt.Sprintf("%d", reversibleCount),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayConcurrencyInfo shows concurrency settings.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, threads int, paths int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Reducing %d path(s) with %d worker(s)\n", paths, threads)
}

// DisplayReport prints the outcome of reducing one job.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) {
	if err := ctx.Err(); err != nil {
		return
	}

	accepted, rejected, skipped, errored := countAttempts(report.Attempts)

	s.printf("Job %s: %d accepted, %d rejected, %d skipped, %d errors; %d marker(s) remaining\n",
		report.Job, accepted, rejected, skipped, errored, report.Remaining)

	for _, kind := range sortedKinds(report.Attempts) {
		for _, attempt := range report.Attempts[kind] {
			s.printf("  %s marker %d -> %s\n", kind, attempt.MarkerID, formatAttemptStatus(attempt.Status))
		}
	}

	if report.Diff != "" {
		s.printf("%s\n", report.Diff)
	}
}

// DisplayReductionScore prints the final reduction score.
func (s *SimpleUI) DisplayReductionScore(ctx context.Context, score float64) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Reduction score: %.2f%%\n", score*100)
}

func countAttempts(attempts m.Result) (accepted, rejected, skipped, errored int) {
	for _, entries := range attempts {
		for _, attempt := range entries {
			switch attempt.Status {
			case m.Accepted:
				accepted++
			case m.Rejected:
				rejected++
			case m.Skipped:
				skipped++
			case m.Error:
				errored++
			}
		}
	}

	return
}

func sortedKinds(attempts m.Result) []m.MarkerKind {
	kinds := make([]m.MarkerKind, 0, len(attempts))
	for kind := range attempts {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i] < kinds[j]
	})

	return kinds
}

func formatAttemptStatus(status m.AttemptStatus) string {
	switch status {
	case m.Accepted:
		return "accepted"
	case m.Rejected:
		return "rejected"
	case m.Skipped:
		return "skipped"
	case m.Error:
		return "error"
	default:
		return unknownStatusLabel
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

const unknownStatusLabel = "unknown"
