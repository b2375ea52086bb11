package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

const sampleJobJSON = `{
  "name": "sample",
  "entry_point": "main",
  "seed": 7,
  "tree": {"kind": "compound"}
}
`

func TestLoadJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.json")
	writeFile(t, path, sampleJobJSON)

	store := NewLocalJobStore(NewLocalJobFSAdapter())

	job, err := store.LoadJob(m.Path(path))
	require.NoError(t, err)
	require.Equal(t, "sample", job.Name)
	require.Equal(t, "main", job.EntryPoint)
	require.NotNil(t, job.Seed)
	require.Equal(t, uint64(7), *job.Seed)
	require.JSONEq(t, `{"kind": "compound"}`, string(job.Tree))
}

func TestLoadJob_NameDefaultsToFileStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crash-001.json")
	writeFile(t, path, `{"tree": {"kind": "compound"}}`)

	store := NewLocalJobStore(NewLocalJobFSAdapter())

	job, err := store.LoadJob(m.Path(path))
	require.NoError(t, err)
	require.Equal(t, "crash-001", job.Name)
}

func TestLoadJob_Errors(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalJobStore(NewLocalJobFSAdapter())

	_, err := store.LoadJob(m.Path(filepath.Join(dir, "missing.json")))
	require.Error(t, err)

	badJSON := filepath.Join(dir, "bad.json")
	writeFile(t, badJSON, "{")

	_, err = store.LoadJob(m.Path(badJSON))
	require.Error(t, err)

	noTree := filepath.Join(dir, "empty.json")
	writeFile(t, noTree, `{"name": "empty"}`)

	_, err = store.LoadJob(m.Path(noTree))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no shader tree")
}

func TestSaveJob_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.json")

	seed := uint64(99)
	job := m.Job{
		Name:       "saved",
		EntryPoint: "compute_main",
		Seed:       &seed,
		Tree:       []byte(`{"kind":"compound"}`),
	}

	store := NewLocalJobStore(NewLocalJobFSAdapter())

	require.NoError(t, store.SaveJob(m.Path(path), job))

	loaded, err := store.LoadJob(m.Path(path))
	require.NoError(t, err)
	require.Equal(t, job.Name, loaded.Name)
	require.Equal(t, job.EntryPoint, loaded.EntryPoint)
	require.Equal(t, seed, *loaded.Seed)
	require.JSONEq(t, string(job.Tree), string(loaded.Tree))
}

func TestListJobs_FindsJSONFilesSorted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), sampleJobJSON)
	writeFile(t, filepath.Join(dir, "a.json"), sampleJobJSON)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a job")
	writeFile(t, filepath.Join(dir, "nested", "c.json"), sampleJobJSON)

	store := NewLocalJobStore(NewLocalJobFSAdapter())

	files, err := store.ListJobs(m.Path(dir), true)
	require.NoError(t, err)
	require.Len(t, files, 3)

	require.Equal(t, m.Path(filepath.Join(dir, "a.json")), files[0].Path)
	require.Equal(t, m.Path(filepath.Join(dir, "b.json")), files[1].Path)
	require.Equal(t, m.Path(filepath.Join(dir, "nested", "c.json")), files[2].Path)

	for _, f := range files {
		require.NotEmpty(t, f.Hash)
	}

	// Identical contents hash identically.
	require.Equal(t, files[0].Hash, files[1].Hash)
}

func TestListJobs_NonRecursiveSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), sampleJobJSON)
	writeFile(t, filepath.Join(dir, "nested", "b.json"), sampleJobJSON)

	store := NewLocalJobStore(NewLocalJobFSAdapter())

	files, err := store.ListJobs(m.Path(dir), false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, m.Path(filepath.Join(dir, "a.json")), files[0].Path)
}

func TestListJobs_SingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "only.json")
	writeFile(t, path, sampleJobJSON)

	store := NewLocalJobStore(NewLocalJobFSAdapter())

	files, err := store.ListJobs(m.Path(path), true)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, m.Path(path), files[0].Path)
	require.NotEmpty(t, files[0].Hash)
}

func TestListJobs_MissingRootFails(t *testing.T) {
	store := NewLocalJobStore(NewLocalJobFSAdapter())

	_, err := store.ListJobs(m.Path(filepath.Join(t.TempDir(), "nowhere")), true)
	require.Error(t, err)
}
