package adapter

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

func TestLocalJobFSAdapter_ReadWrite(t *testing.T) {
	a := NewLocalJobFSAdapter()
	path := m.Path(filepath.Join(t.TempDir(), "shader.wgsl"))

	require.NoError(t, a.WriteFile(path, []byte("fn main() {}\n"), 0o600))

	content, err := a.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("fn main() {}\n"), content)

	info, err := a.FileInfo(path)
	require.NoError(t, err)
	require.False(t, info.IsDir())
}

func TestLocalJobFSAdapter_HashFile(t *testing.T) {
	a := NewLocalJobFSAdapter()
	path := m.Path(filepath.Join(t.TempDir(), "data"))

	require.NoError(t, a.WriteFile(path, []byte("content"), 0o600))

	hash, err := a.HashFile(path)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%x", sha256.Sum256([]byte("content"))), hash)
}

func TestLocalJobFSAdapter_HashFileMissing(t *testing.T) {
	a := NewLocalJobFSAdapter()

	_, err := a.HashFile(m.Path(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
}

func TestLocalJobFSAdapter_WalkRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.json"), "{}")
	writeFile(t, filepath.Join(dir, "sub", "deep.json"), "{}")

	a := NewLocalJobFSAdapter()

	var seen []string

	err := a.Walk(m.Path(dir), true, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)

		if !info.IsDir() {
			seen = append(seen, filepath.Base(path))
		}

		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"top.json", "deep.json"}, seen)
}

func TestLocalJobFSAdapter_WalkNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.json"), "{}")
	writeFile(t, filepath.Join(dir, "sub", "deep.json"), "{}")

	a := NewLocalJobFSAdapter()

	var seen []string

	err := a.Walk(m.Path(dir), false, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)

		if !info.IsDir() {
			seen = append(seen, filepath.Base(path))
		}

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"top.json"}, seen)
}

func TestLocalJobFSAdapter_TempDirLifecycle(t *testing.T) {
	a := NewLocalJobFSAdapter()

	tmpDir, err := a.CreateTempDir("wgslfuzz-test-*")
	require.NoError(t, err)

	info, err := a.FileInfo(tmpDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	staged := a.JoinPath(string(tmpDir), "candidate.wgsl")
	require.NoError(t, a.WriteFile(staged, []byte("fn main() {}\n"), 0o600))

	require.NoError(t, a.RemoveAll(tmpDir))

	_, err = a.FileInfo(tmpDir)
	require.Error(t, err)
}

func TestLocalJobFSAdapter_JoinPath(t *testing.T) {
	a := NewLocalJobFSAdapter()

	require.Equal(t, m.Path(filepath.Join("a", "b", "c.wgsl")), a.JoinPath("a", "b", "c.wgsl"))
}
