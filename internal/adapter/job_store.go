package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

// JobStore encapsulates the on-disk job format so the domain layer can focus
// on reduction rules while delegating storage details to an infrastructure
// component.
type JobStore interface {
	// LoadJob reads and validates a job file.
	LoadJob(path m.Path) (m.Job, error)

	// SaveJob writes a job back to disk, preserving the stored format.
	SaveJob(path m.Path, job m.Job) error

	// ListJobs finds job files under root. A root that is itself a job file
	// yields a single entry.
	ListJobs(root m.Path, recursive bool) ([]m.File, error)
}

// jobFile is the stored representation of a job.
type jobFile struct {
	Name       string          `json:"name"`
	EntryPoint string          `json:"entry_point,omitempty"`
	Seed       *uint64         `json:"seed,omitempty"`
	Tree       json.RawMessage `json:"tree"`
}

// LocalJobStore provides a concrete JobStore backed by JSON files.
type LocalJobStore struct {
	fs JobFSAdapter
}

// NewLocalJobStore constructs a LocalJobStore over the given filesystem
// adapter.
func NewLocalJobStore(fs JobFSAdapter) *LocalJobStore {
	return &LocalJobStore{fs: fs}
}

// LoadJob reads and validates a job file.
func (s *LocalJobStore) LoadJob(path m.Path) (m.Job, error) {
	content, err := s.fs.ReadFile(path)
	if err != nil {
		return m.Job{}, fmt.Errorf("read job %s: %w", path, err)
	}

	var stored jobFile
	if err := json.Unmarshal(content, &stored); err != nil {
		return m.Job{}, fmt.Errorf("parse job %s: %w", path, err)
	}

	if len(stored.Tree) == 0 {
		return m.Job{}, fmt.Errorf("job %s has no shader tree", path)
	}

	name := stored.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(string(path)), filepath.Ext(string(path)))
	}

	return m.Job{
		Name:       name,
		Tree:       stored.Tree,
		EntryPoint: stored.EntryPoint,
		Seed:       stored.Seed,
	}, nil
}

// SaveJob writes a job back to disk.
func (s *LocalJobStore) SaveJob(path m.Path, job m.Job) error {
	stored := jobFile{
		Name:       job.Name,
		EntryPoint: job.EntryPoint,
		Seed:       job.Seed,
		Tree:       json.RawMessage(job.Tree),
	}

	content, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode job %s: %w", path, err)
	}

	return s.fs.WriteFile(path, append(content, '\n'), 0o600)
}

// ListJobs finds job files under root, sorted by path.
func (s *LocalJobStore) ListJobs(root m.Path, recursive bool) ([]m.File, error) {
	info, err := s.fs.FileInfo(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		return s.singleJob(root)
	}

	var files []m.File

	err = s.fs.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		hash, err := s.fs.HashFile(m.Path(path))
		if err != nil {
			return err
		}

		files = append(files, m.File{Path: m.Path(path), Hash: hash})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

func (s *LocalJobStore) singleJob(path m.Path) ([]m.File, error) {
	hash, err := s.fs.HashFile(path)
	if err != nil {
		return nil, err
	}

	return []m.File{{Path: path, Hash: hash}}, nil
}
