package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

func scanInfos() []m.MarkerInfo {
	return []m.MarkerInfo{
		{ID: 1, Kind: m.MarkerParenInsertion, Function: "main", Reversible: true, Snippet: "(x)"},
		{ID: 2, Kind: m.MarkerDeadCodeFragment, Function: "main", Snippet: "if false {"},
	}
}

func TestTUI_DisplayMarkerScanStaticOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	ui := NewTUI(buf)

	// A plain buffer has no terminal size, so the static path is taken.
	require.NoError(t, ui.DisplayMarkerScan(context.Background(), scanInfos(), nil))

	out := buf.String()
	require.Contains(t, out, "Markers (2)")
	require.Contains(t, out, "paren_insertion")
	require.Contains(t, out, "dead_code_fragment")
}

func TestTUI_DisplayMarkerScanError(t *testing.T) {
	buf := &bytes.Buffer{}
	ui := NewTUI(buf)

	wantErr := errors.New("decode failed")

	err := ui.DisplayMarkerScan(context.Background(), nil, wantErr)
	require.ErrorIs(t, err, wantErr)
	require.Contains(t, buf.String(), "decode failed")
}

func TestTUI_DisplayReport(t *testing.T) {
	buf := &bytes.Buffer{}
	ui := NewTUI(buf)

	ui.DisplayReport(context.Background(), m.Report{
		Job:       "crash-001",
		Remaining: 3,
		Attempts: m.Result{
			m.MarkerParenInsertion: {
				{MarkerID: 1, Status: m.Accepted},
				{MarkerID: 2, Status: m.Rejected},
			},
		},
		Diff: "-old line\n+new line\n context\n",
	})

	out := buf.String()
	require.Contains(t, out, "Job crash-001")
	require.Contains(t, out, "accepted: 1")
	require.Contains(t, out, "rejected: 1")
	require.Contains(t, out, "remaining markers: 3")
	require.Contains(t, out, "new line")
}

func TestTUI_DisplayReductionScore(t *testing.T) {
	buf := &bytes.Buffer{}
	ui := NewTUI(buf)

	ui.DisplayReductionScore(context.Background(), 0.25)

	require.Contains(t, buf.String(), "Reduction score: 25.00%")
}

func TestTUI_CancelledContextWritesNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	ui := NewTUI(buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, ui.DisplayMarkerScan(ctx, scanInfos(), nil))
	ui.DisplayReport(ctx, m.Report{Job: "x"})
	ui.DisplayReductionScore(ctx, 1)

	require.Empty(t, buf.String())
}

func TestMarkerScanModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		model := newMarkerScanModel(scanInfos())

		var msg tea.KeyMsg
		switch key {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}

		updated, cmd := model.Update(msg)
		require.NotNil(t, cmd, "key %q should quit", key)

		msm, ok := updated.(markerScanModel)
		require.True(t, ok)
		require.True(t, msm.quitting)
		require.Empty(t, msm.View())
	}
}

func TestMarkerScanModel_ViewListsMarkers(t *testing.T) {
	model := newMarkerScanModel(scanInfos())

	view := model.View()
	require.Contains(t, view, "Markers (2)")
	require.Contains(t, view, "paren_insertion")
	require.Contains(t, view, "q: quit")
}

func TestMarkerScanModel_WindowResize(t *testing.T) {
	model := newMarkerScanModel(scanInfos())

	updated, cmd := model.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	require.Nil(t, cmd)

	msm, ok := updated.(markerScanModel)
	require.True(t, ok)
	require.Equal(t, 20-scanChromeLines, msm.tbl.Height())
}
