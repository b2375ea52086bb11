package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/adapter"
	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
)

// Orchestrator coordinates staging a candidate shader in a temporary
// directory and running the interestingness oracle against it to determine
// whether a reduction attempt is accepted.
type Orchestrator interface {
	TestCandidate(ctx context.Context, job string, shaderText string, oracle []string) (m.AttemptStatus, string, error)
}

type orchestrator struct {
	fsAdapter     adapter.JobFSAdapter
	oracleAdapter adapter.OracleAdapter
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem and oracle adapters.
func NewOrchestrator(fsAdapter adapter.JobFSAdapter, oracleAdapter adapter.OracleAdapter) Orchestrator {
	return &orchestrator{
		fsAdapter:     fsAdapter,
		oracleAdapter: oracleAdapter,
	}
}

func (o *orchestrator) TestCandidate(ctx context.Context, job string, shaderText string, oracle []string) (m.AttemptStatus, string, error) {
	if err := ctx.Err(); err != nil {
		return m.Error, "", err
	}

	if len(oracle) == 0 {
		return m.Error, "", fmt.Errorf("job %s: no oracle command configured", job)
	}

	shaderPath, tmpDir, err := o.stageCandidate(job, shaderText)
	if tmpDir != "" {
		defer o.cleanupTempDir(tmpDir)
	}

	if err != nil {
		return m.Error, "", err
	}

	interesting, output, err := o.oracleAdapter.RunOracle(ctx, oracle, string(shaderPath))
	if err != nil {
		slog.Error("Oracle run failed", "job", job, "error", err)
		return m.Error, output, fmt.Errorf("run oracle: %w", err)
	}

	if interesting {
		return m.Accepted, output, nil
	}

	return m.Rejected, output, nil
}

func (o *orchestrator) stageCandidate(job string, shaderText string) (m.Path, m.Path, error) {
	tmpDir, err := o.fsAdapter.CreateTempDir("wgslfuzz-reduce-*")
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return "", "", fmt.Errorf("failed to create temp dir: %w", err)
	}

	shaderPath := o.fsAdapter.JoinPath(string(tmpDir), job+".wgsl")

	if err := o.fsAdapter.WriteFile(shaderPath, []byte(shaderText), 0o600); err != nil {
		slog.Error("Failed to write candidate shader", "path", shaderPath, "error", err)
		return "", tmpDir, fmt.Errorf("failed to write candidate shader: %w", err)
	}

	return shaderPath, tmpDir, nil
}

// cleanupTempDir removes the temporary directory, logging errors if cleanup fails.
func (o *orchestrator) cleanupTempDir(tmpDir m.Path) {
	if err := o.fsAdapter.RemoveAll(tmpDir); err != nil {
		slog.Error("Failed to cleanup temp dir", "tmpDir", tmpDir, "error", err)
	}
}
