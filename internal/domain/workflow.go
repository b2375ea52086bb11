package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/adapter"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/augment"
	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/printer"
	pkg "github.com/mc-imperial/wgsl-fuzz-sub001/pkg"
)

// ReduceArgs contains the arguments for a reduction run.
type ReduceArgs struct {
	Paths   []m.Path
	Reports m.Path
	Oracle  []string
	Threads uint
	// MaxRounds caps the number of accepted reversals per job. Zero means
	// reduce until no reversal is accepted.
	MaxRounds uint
}

// Workflow defines the interface for the shader reduction workflow.
type Workflow interface {
	Reduce(ctx context.Context, args ReduceArgs) ([]m.Report, error)
}

type workflow struct {
	adapter.JobStore
	adapter.ReportStore
	Orchestrator
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	jobStore adapter.JobStore,
	reportStore adapter.ReportStore,
	orchestrator Orchestrator,
) Workflow {
	return &workflow{
		JobStore:     jobStore,
		ReportStore:  reportStore,
		Orchestrator: orchestrator,
	}
}

// Reduce runs the reduction loop over every job under args.Paths. Jobs are
// reduced independently and in parallel; within one job, reversals are
// applied one at a time so each oracle verdict is against a known tree.
func (w *workflow) Reduce(ctx context.Context, args ReduceArgs) ([]m.Report, error) {
	jobFiles, err := w.gatherJobFiles(args.Paths)
	if err != nil {
		return nil, fmt.Errorf("gather jobs: %w", err)
	}

	reports := []m.Report{}
	errs := []error{}

	var (
		reportsMutex sync.Mutex
		errsMutex    sync.Mutex
	)

	var group errgroup.Group
	if args.Threads > 0 {
		group.SetLimit(int(args.Threads))
	}

	for _, jobFile := range jobFiles {
		currentFile := jobFile

		group.Go(func() error {
			report, err := w.reduceJob(ctx, currentFile, args)
			if err != nil {
				errsMutex.Lock()

				errs = append(errs, fmt.Errorf("%s: %w", currentFile.Path, err))

				errsMutex.Unlock()

				return nil
			}

			reportsMutex.Lock()

			reports = append(reports, report)

			reportsMutex.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return reports, err
	}

	if args.Reports != "" {
		if err := w.SaveReports(args.Reports, reports); err != nil {
			return reports, fmt.Errorf("save reports: %w", err)
		}
	}

	if len(errs) > 0 {
		return reports, fmt.Errorf("errors occurred during reduction: %v", errs)
	}

	return reports, nil
}

func (w *workflow) gatherJobFiles(paths []m.Path) ([]m.File, error) {
	var files []m.File

	for _, path := range paths {
		found, err := w.ListJobs(path, true)
		if err != nil {
			return nil, err
		}

		files = append(files, found...)
	}

	return files, nil
}

// reduceJob drives one job to a fixpoint: scan the reversible markers, try
// each reversal against the oracle, apply the first accepted one, rescan.
func (w *workflow) reduceJob(ctx context.Context, jobFile m.File, args ReduceArgs) (m.Report, error) {
	job, err := w.LoadJob(jobFile.Path)
	if err != nil {
		return m.Report{}, err
	}

	originalText, err := renderTree(job.Tree)
	if err != nil {
		return m.Report{}, err
	}

	status, output, err := w.TestCandidate(ctx, job.Name, originalText, args.Oracle)
	if err != nil {
		return m.Report{}, err
	}

	if status != m.Accepted {
		return m.Report{}, fmt.Errorf("job %s is not interesting before reduction: %s", job.Name, output)
	}

	spill, err := pkg.NewFileSpill[m.Attempt]()
	if err != nil {
		return m.Report{}, err
	}

	defer func() {
		_ = spill.Close()
	}()

	current, err := w.reduceToFixpoint(ctx, job, args, spill)
	if err != nil {
		return m.Report{}, err
	}

	return w.buildReport(job, jobFile, originalText, current, spill)
}

func (w *workflow) reduceToFixpoint(ctx context.Context, job m.Job, args ReduceArgs, spill pkg.FileSpill[m.Attempt]) ([]byte, error) {
	current := job.Tree
	tried := map[uint64]bool{}
	accepted := uint(0)

	for {
		if args.MaxRounds > 0 && accepted >= args.MaxRounds {
			return current, nil
		}

		next, done, err := w.reductionPass(ctx, job, current, args.Oracle, tried, spill)
		if err != nil {
			return nil, err
		}

		if done {
			return current, nil
		}

		current = next
		accepted++
		// An accepted reversal changes the tree, so every remaining
		// marker is worth another try.
		tried = map[uint64]bool{}
	}
}

// reductionPass tries reversals on the current tree until one is accepted.
// It returns the new tree, or done=true when no untried reversal succeeds.
func (w *workflow) reductionPass(
	ctx context.Context,
	job m.Job,
	current []byte,
	oracle []string,
	tried map[uint64]bool,
	spill pkg.FileSpill[m.Attempt],
) ([]byte, bool, error) {
	mod, err := augment.UnmarshalModule(current)
	if err != nil {
		return nil, false, fmt.Errorf("decode tree: %w", err)
	}

	registry, err := augment.CollectModule(mod)
	if err != nil {
		return nil, false, err
	}

	scope := moduleScope(mod)

	for _, marker := range registry.SortedByID() {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		if tried[marker.ID()] {
			continue
		}

		tried[marker.ID()] = true

		if _, ok := marker.(augment.Reversible); !ok {
			if err := spill.Append(skippedAttempt(marker)); err != nil {
				return nil, false, err
			}

			continue
		}

		if !collapseWorthTrying(scope, marker) {
			if err := spill.Append(skippedAttempt(marker)); err != nil {
				return nil, false, err
			}

			slog.Debug("Collapse skipped, would change type", "job", job.Name, "marker", marker.ID())

			continue
		}

		next, attempt, err := w.tryReversal(ctx, job, current, marker, oracle)
		if err != nil {
			return nil, false, err
		}

		if err := spill.Append(attempt); err != nil {
			return nil, false, err
		}

		if attempt.Status == m.Accepted {
			slog.Info("Reversal accepted", "job", job.Name, "marker", marker.ID(), "kind", attempt.Kind)
			return next, false, nil
		}
	}

	return nil, true, nil
}

// tryReversal splices the reversal into a fresh decode of the current tree
// and asks the oracle whether the candidate is still interesting.
func (w *workflow) tryReversal(
	ctx context.Context,
	job m.Job,
	current []byte,
	marker augment.Marker,
	oracle []string,
) ([]byte, m.Attempt, error) {
	attempt := m.Attempt{
		MarkerID: marker.ID(),
		Kind:     MarkerKindOf(marker),
	}

	candidate, err := augment.UnmarshalModule(current)
	if err != nil {
		return nil, attempt, fmt.Errorf("decode tree: %w", err)
	}

	if err := ApplyReversal(candidate, marker.ID()); err != nil {
		attempt.Status = m.Error
		attempt.Err = err.Error()

		slog.Warn("Reversal failed", "job", job.Name, "marker", marker.ID(), "error", err)

		return nil, attempt, nil
	}

	candidateText := printer.New(printer.Options{OmitCommentary: true}).PrintModule(candidate)

	status, output, err := w.TestCandidate(ctx, job.Name, candidateText, oracle)
	if err != nil {
		attempt.Status = m.Error
		attempt.Err = err.Error()
		attempt.Output = output

		return nil, attempt, nil
	}

	attempt.Status = status
	attempt.Output = output

	if status != m.Accepted {
		return nil, attempt, nil
	}

	next, err := augment.MarshalModule(candidate)
	if err != nil {
		return nil, attempt, fmt.Errorf("encode reduced tree: %w", err)
	}

	return next, attempt, nil
}

// collapseWorthTrying reports whether a collapse marker deserves an oracle
// run. A collapse that changes the expression's inferred type cannot yield
// a valid shader; markers whose operand types cannot be resolved go to the
// oracle anyway. Non-collapse markers always pass.
func collapseWorthTrying(scope Scope, marker augment.Marker) bool {
	var bin *ast.BinaryExpr
	var kept ast.Expr

	switch c := marker.(type) {
	case *augment.BinaryLeftCollapse:
		bin, kept = c.Target, c.Target.Left
	case *augment.BinaryRightCollapse:
		bin, kept = c.Target, c.Target.Right
	default:
		return true
	}

	preserves, err := CollapsePreservesType(scope, bin, kept)
	if err != nil {
		return true
	}

	return preserves
}

func skippedAttempt(marker augment.Marker) m.Attempt {
	return m.Attempt{
		MarkerID: marker.ID(),
		Kind:     MarkerKindOf(marker),
		Status:   m.Skipped,
	}
}

func (w *workflow) buildReport(job m.Job, jobFile m.File, originalText string, current []byte, spill pkg.FileSpill[m.Attempt]) (m.Report, error) {
	reducedText, err := renderTree(current)
	if err != nil {
		return m.Report{}, err
	}

	attempts := m.Result{}

	err = spill.Range(func(_ uint64, attempt m.Attempt) error {
		attempts[attempt.Kind] = append(attempts[attempt.Kind], attempt)
		return nil
	})
	if err != nil {
		return m.Report{}, err
	}

	remaining, err := countMarkers(current)
	if err != nil {
		return m.Report{}, err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(originalText),
		B:        difflib.SplitLines(reducedText),
		FromFile: job.Name + ".orig.wgsl",
		ToFile:   job.Name + ".reduced.wgsl",
		Context:  3,
	})
	if err != nil {
		return m.Report{}, fmt.Errorf("render diff: %w", err)
	}

	score, err := reductionScoreFromAttempts(spill)
	if err != nil {
		return m.Report{}, err
	}

	slog.Info("Job reduced", "job", job.Name, "remaining", remaining, "score", score)

	return m.Report{
		Job:       job.Name,
		JobFile:   jobFile.Path,
		Attempts:  attempts,
		Remaining: remaining,
		Diff:      diff,
	}, nil
}

func renderTree(tree []byte) (string, error) {
	mod, err := augment.UnmarshalModule(tree)
	if err != nil {
		return "", fmt.Errorf("decode tree: %w", err)
	}

	return printer.New(printer.Options{OmitCommentary: true}).PrintModule(mod), nil
}

func countMarkers(tree []byte) (int, error) {
	mod, err := augment.UnmarshalModule(tree)
	if err != nil {
		return 0, err
	}

	registry, err := augment.CollectModule(mod)
	if err != nil {
		return 0, err
	}

	return registry.Len(), nil
}
