package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// OracleAdapter abstracts the interestingness test for reduction. An oracle
// is an external command that receives a candidate shader path and exits
// zero when the candidate still exhibits the behavior under investigation.
type OracleAdapter interface {
	// RunOracle runs the oracle command on the shader at shaderPath.
	// Returns whether the candidate is interesting, the combined
	// stdout/stderr output, and any error starting the command.
	RunOracle(ctx context.Context, argv []string, shaderPath string) (interesting bool, output string, err error)
}

// LocalOracleAdapter runs oracle commands with os/exec.
type LocalOracleAdapter struct {
	timeout time.Duration
}

const defaultOracleTimeout = 60 * time.Second

// NewLocalOracleAdapter constructs a LocalOracleAdapter with the given
// per-run timeout. A non-positive timeout falls back to 60s.
func NewLocalOracleAdapter(timeout time.Duration) *LocalOracleAdapter {
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}

	return &LocalOracleAdapter{
		timeout: timeout,
	}
}

// RunOracle runs the oracle command, appending the shader path as the final
// argument. A timed-out or non-zero exit means the candidate is not
// interesting; only failures to start the command surface as errors.
func (a *LocalOracleAdapter) RunOracle(ctx context.Context, argv []string, shaderPath string) (bool, string, error) {
	if len(argv) == 0 {
		return false, "", errors.New("empty oracle command")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := append(append([]string{}, argv[1:]...), shaderPath)
	cmd := exec.CommandContext(ctx, argv[0], args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := stdout.String() + stderr.String()

	if err == nil {
		return true, output, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, output, nil
	}

	return false, output, err
}
