package cmd

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

type fakeReportStore struct {
	loaded    map[m.Path][]m.Report
	loadErr   error
	savedPath m.Path
	saved     []m.Report
}

func (f *fakeReportStore) LoadReports(path m.Path) ([]m.Report, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}

	return f.loaded[path], nil
}

func (f *fakeReportStore) SaveReports(path m.Path, reports []m.Report) error {
	f.savedPath = path
	f.saved = reports

	return nil
}

func TestMergeCmd_UsesRootOutputFlagByDefault(t *testing.T) {
	fake := &fakeReportStore{loaded: map[m.Path][]m.Report{
		"a.yaml": {{Job: "crash-001"}},
		"b.yaml": {{Job: "crash-002"}, {Job: "crash-003"}},
	}}

	cmd := baseRootCmd()
	configureRootFlags(cmd)
	cmd.AddCommand(newMergeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalStore := reportStore
	reportStore = fake
	defer func() { reportStore = originalStore }()

	cmd.SetArgs([]string{"merge", "a.yaml", "b.yaml"})
	err := cmd.Execute()
	require.NoError(t, err)

	require.Equal(t, m.Path(defaultReportsFile), fake.savedPath)
	require.Len(t, fake.saved, 3)
	require.Equal(t, "crash-001", fake.saved[0].Job)
}

func TestMergeCmd_RootOutputFlagIsPassedThrough(t *testing.T) {
	fake := &fakeReportStore{loaded: map[m.Path][]m.Report{
		"a.yaml": {{Job: "crash-001"}},
	}}

	cmd := baseRootCmd()
	configureRootFlags(cmd)
	cmd.AddCommand(newMergeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalStore := reportStore
	reportStore = fake
	defer func() { reportStore = originalStore }()

	cmd.SetArgs([]string{"--output", "merged-reports.yaml", "merge", "a.yaml"})
	err := cmd.Execute()
	require.NoError(t, err)

	require.Equal(t, m.Path("merged-reports.yaml"), fake.savedPath)
	require.Len(t, fake.saved, 1)
}

func TestMergeCmd_LoadErrorAborts(t *testing.T) {
	fake := &fakeReportStore{loadErr: fmt.Errorf("open missing.yaml: no such file")}

	cmd := baseRootCmd()
	configureRootFlags(cmd)
	cmd.AddCommand(newMergeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalStore := reportStore
	reportStore = fake
	defer func() { reportStore = originalStore }()

	cmd.SetArgs([]string{"merge", "missing.yaml"})
	err := cmd.Execute()
	require.Error(t, err)
	require.Empty(t, fake.saved)
}
