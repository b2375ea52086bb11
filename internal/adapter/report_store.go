package adapter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

// ReportStore persists reduction reports between runs so results from
// sharded or repeated invocations can be merged.
type ReportStore interface {
	SaveReports(path m.Path, reports []m.Report) error
	LoadReports(path m.Path) ([]m.Report, error)
}

// YAMLReportStore stores reports as a YAML document.
type YAMLReportStore struct {
	fs JobFSAdapter
}

// NewYAMLReportStore constructs a YAMLReportStore over the given filesystem
// adapter.
func NewYAMLReportStore(fs JobFSAdapter) *YAMLReportStore {
	return &YAMLReportStore{fs: fs}
}

// attemptRecord is the stored form of an attempt. Errors are flattened to
// text; they only exist for display once persisted.
type attemptRecord struct {
	MarkerID uint64 `yaml:"marker_id"`
	Status   string `yaml:"status"`
	Output   string `yaml:"output,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

type reportRecord struct {
	Job       string                           `yaml:"job"`
	JobFile   string                           `yaml:"job_file,omitempty"`
	Attempts  map[m.MarkerKind][]attemptRecord `yaml:"attempts"`
	Remaining int                              `yaml:"remaining"`
	Diff      string                           `yaml:"diff,omitempty"`
}

var statusNames = map[m.AttemptStatus]string{
	m.Accepted: "accepted",
	m.Rejected: "rejected",
	m.Skipped:  "skipped",
	m.Error:    "error",
}

// SaveReports writes reports to path as YAML.
func (s *YAMLReportStore) SaveReports(path m.Path, reports []m.Report) error {
	records := make([]reportRecord, 0, len(reports))
	for _, report := range reports {
		records = append(records, toRecord(report))
	}

	content, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	return s.fs.WriteFile(path, content, 0o600)
}

// LoadReports reads reports previously written by SaveReports.
func (s *YAMLReportStore) LoadReports(path m.Path) ([]m.Report, error) {
	content, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reports %s: %w", path, err)
	}

	var records []reportRecord
	if err := yaml.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("parse reports %s: %w", path, err)
	}

	reports := make([]m.Report, 0, len(records))
	for _, record := range records {
		reports = append(reports, fromRecord(record))
	}

	return reports, nil
}

func toRecord(report m.Report) reportRecord {
	attempts := make(map[m.MarkerKind][]attemptRecord, len(report.Attempts))

	for kind, entries := range report.Attempts {
		stored := make([]attemptRecord, 0, len(entries))

		for _, attempt := range entries {
			stored = append(stored, attemptRecord{
				MarkerID: attempt.MarkerID,
				Status:   statusNames[attempt.Status],
				Output:   attempt.Output,
				Error:    attempt.Err,
			})
		}

		attempts[kind] = stored
	}

	return reportRecord{
		Job:       report.Job,
		JobFile:   string(report.JobFile),
		Attempts:  attempts,
		Remaining: report.Remaining,
		Diff:      report.Diff,
	}
}

func fromRecord(record reportRecord) m.Report {
	attempts := make(m.Result, len(record.Attempts))

	for kind, entries := range record.Attempts {
		loaded := make([]m.Attempt, 0, len(entries))

		for _, stored := range entries {
			loaded = append(loaded, m.Attempt{
				MarkerID: stored.MarkerID,
				Kind:     kind,
				Status:   statusFromName(stored.Status),
				Output:   stored.Output,
				Err:      stored.Error,
			})
		}

		attempts[kind] = loaded
	}

	return m.Report{
		Job:       record.Job,
		JobFile:   m.Path(record.JobFile),
		Attempts:  attempts,
		Remaining: record.Remaining,
		Diff:      record.Diff,
	}
}

func statusFromName(name string) m.AttemptStatus {
	for status, statusName := range statusNames {
		if statusName == name {
			return status
		}
	}

	return m.Error
}
