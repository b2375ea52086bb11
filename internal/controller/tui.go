package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	acceptedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	tableBorder   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI.
func (t *TUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (t *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed. Display methods below run their own
// programs, so there is nothing to wait for here.
func (t *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayMarkerScan shows scanned markers in an interactive table. Short
// lists are printed statically so piping output stays usable.
func (t *TUI) DisplayMarkerScan(ctx context.Context, infos []m.MarkerInfo, scanErr error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if scanErr != nil {
		_, _ = fmt.Fprintf(t.output, "%s\n", rejectedStyle.Render(fmt.Sprintf("scan error: %v", scanErr)))
		return scanErr
	}

	model := newMarkerScanModel(infos)

	_, height := t.terminalSize()
	if height > 0 && len(infos)+scanChromeLines > height {
		model.tbl.SetHeight(height - scanChromeLines)

		program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return err
		}

		return nil
	}

	_, err := fmt.Fprint(t.output, model.View())

	return err
}

// DisplayConcurrencyInfo shows concurrency settings.
func (t *TUI) DisplayConcurrencyInfo(ctx context.Context, threads int, paths int) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(t.output, "%s\n", faintStyle.Render(
		fmt.Sprintf("Reducing %d path(s) with %d worker(s)", paths, threads)))
}

// DisplayReport shows the outcome of reducing one job.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) {
	if err := ctx.Err(); err != nil {
		return
	}

	accepted, rejected, skipped, errored := countAttempts(report.Attempts)

	var b strings.Builder

	b.WriteString(headerStyle.Render("Job "+report.Job) + "\n")
	b.WriteString(acceptedStyle.Render(fmt.Sprintf("  accepted: %d", accepted)) + "\n")
	b.WriteString(rejectedStyle.Render(fmt.Sprintf("  rejected: %d", rejected)) + "\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("  skipped: %d  errors: %d  remaining markers: %d", skipped, errored, report.Remaining)) + "\n")

	if report.Diff != "" {
		b.WriteString(renderDiff(report.Diff))
	}

	_, _ = fmt.Fprint(t.output, b.String())
}

// DisplayReductionScore shows the final reduction score.
func (t *TUI) DisplayReductionScore(ctx context.Context, score float64) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(t.output, "%s\n", headerStyle.Render(fmt.Sprintf("Reduction score: %.2f%%", score*100)))
}

func renderDiff(diff string) string {
	var b strings.Builder

	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(acceptedStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(rejectedStyle.Render(line))
		default:
			b.WriteString(faintStyle.Render(line))
		}

		b.WriteByte('\n')
	}

	return b.String()
}

func (t *TUI) terminalSize() (int, int) {
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			return width, height
		}
	}

	return 0, 0
}

// scanChromeLines is the vertical space the scan view needs besides table
// rows: header, table frame, and the help line.
const scanChromeLines = 8

// markerScanModel is the Bubble Tea model for browsing scanned markers.
type markerScanModel struct {
	tbl      table.Model
	total    int
	quitting bool
}

func newMarkerScanModel(infos []m.MarkerInfo) markerScanModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Kind", Width: 22},
		{Title: "Function", Width: 16},
		{Title: "Reversible", Width: 10},
		{Title: "Code", Width: 40},
	}

	rows := make([]table.Row, 0, len(infos))

	for _, info := range infos {
		reversible := ""
		if info.Reversible {
			reversible = "yes"
		}

		rows = append(rows, table.Row{
			fmt.Sprintf("%d", info.ID),
			string(info.Kind),
			info.Function,
			reversible,
			info.Snippet,
		})
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("229"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	tbl.SetStyles(styles)

	return markerScanModel{tbl: tbl, total: len(infos)}
}

func (msm markerScanModel) Init() tea.Cmd {
	return nil
}

func (msm markerScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - scanChromeLines
		if height < 1 {
			height = 1
		}

		msm.tbl.SetHeight(height)

		return msm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			msm.quitting = true
			return msm, tea.Quit
		}
	}

	var cmd tea.Cmd

	msm.tbl, cmd = msm.tbl.Update(msg)

	return msm, cmd
}

func (msm markerScanModel) View() string {
	if msm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Markers (%d)", msm.total)) + "\n")
	b.WriteString(tableBorder.Render(msm.tbl.View()) + "\n")
	b.WriteString(faintStyle.Render("  j/k: move  q: quit") + "\n")

	return b.String()
}
