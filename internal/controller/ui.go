// Package controller provides output frontends for displaying scan and
// reduction results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeScan StartMode = iota
	ModeReduce
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithScanMode sets the UI to marker scanning mode.
func WithScanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeScan
	}
}

// WithReduceMode sets the UI to reduction mode.
func WithReduceMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeReduce
	}
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewUI selects the interactive TUI when attached to a terminal and the
// plain printer otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// UI defines the interface for displaying scan and reduction results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayMarkerScan(ctx context.Context, infos []m.MarkerInfo, err error) error
	DisplayConcurrencyInfo(ctx context.Context, threads int, paths int)
	DisplayReport(ctx context.Context, report m.Report)
	DisplayReductionScore(ctx context.Context, score float64)
}
