// Package domain contains the core shader reduction workflow and logic.
package domain

import (
	"context"
	"fmt"
	"sort"

	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/adapter"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/ast"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/augment"
	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
	"github.com/mc-imperial/wgsl-fuzz-sub001/internal/printer"
)

// Scanner defines the interface for enumerating the markers in stored jobs.
type Scanner interface {
	ScanMarkers(ctx context.Context, job m.Job, kinds ...m.MarkerKind) ([]m.MarkerInfo, error)
	StreamMarkers(ctx context.Context, jobs <-chan m.Job, threads int, kinds ...m.MarkerKind) (<-chan m.MarkerInfo, <-chan error)
}

// scanner handles pure marker enumeration logic.
type scanner struct {
	adapter.JobStore
}

// NewScanner creates a new Scanner instance.
func NewScanner(jobStore adapter.JobStore) Scanner {
	return &scanner{JobStore: jobStore}
}

func (sc *scanner) ScanMarkers(ctx context.Context, job m.Job, kinds ...m.MarkerKind) ([]m.MarkerInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := validateJob(job); err != nil {
		return nil, err
	}

	wanted, err := resolveMarkerKinds(kinds)
	if err != nil {
		return nil, err
	}

	mod, err := augment.UnmarshalModule(job.Tree)
	if err != nil {
		return nil, fmt.Errorf("decode job %s: %w", job.Name, err)
	}

	return collectMarkerInfos(mod, wanted), nil
}

func validateJob(job m.Job) error {
	if len(job.Tree) == 0 {
		return fmt.Errorf("job %s has no shader tree", job.Name)
	}

	return nil
}

var allMarkerKinds = []m.MarkerKind{
	m.MarkerParenInsertion,
	m.MarkerBinaryLeftCollapse,
	m.MarkerBinaryRightCollapse,
	m.MarkerDeletableStatement,
	m.MarkerEmptiableCompound,
	m.MarkerKnownFalse,
	m.MarkerKnownTrue,
	m.MarkerDeadCodeFragment,
}

func resolveMarkerKinds(kinds []m.MarkerKind) (map[m.MarkerKind]bool, error) {
	if len(kinds) == 0 {
		kinds = allMarkerKinds
	}

	known := make(map[m.MarkerKind]bool, len(allMarkerKinds))
	for _, kind := range allMarkerKinds {
		known[kind] = true
	}

	wanted := make(map[m.MarkerKind]bool, len(kinds))

	for _, kind := range kinds {
		if !known[kind] {
			return nil, fmt.Errorf("unsupported marker kind: %s", kind)
		}

		wanted[kind] = true
	}

	return wanted, nil
}

func collectMarkerInfos(mod *ast.Module, wanted map[m.MarkerKind]bool) []m.MarkerInfo {
	var infos []m.MarkerInfo

	for _, fn := range mod.Functions {
		augment.Inspect(fn.Body, func(n ast.Node) bool {
			marker, ok := n.(augment.Marker)
			if !ok {
				return true
			}

			kind := MarkerKindOf(marker)
			if !wanted[kind] {
				return true
			}

			_, reversible := marker.(augment.Reversible)

			infos = append(infos, m.MarkerInfo{
				ID:         marker.ID(),
				Kind:       kind,
				Function:   fn.Name,
				Reversible: reversible,
				Commentary: marker.Commentary(),
				Snippet:    markerSnippet(marker),
			})

			return true
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})

	return infos
}

// MarkerKindOf maps a marker node to its displayable kind.
func MarkerKindOf(marker augment.Marker) m.MarkerKind {
	switch marker.(type) {
	case *augment.ParenInsertion:
		return m.MarkerParenInsertion
	case *augment.BinaryLeftCollapse:
		return m.MarkerBinaryLeftCollapse
	case *augment.BinaryRightCollapse:
		return m.MarkerBinaryRightCollapse
	case *augment.DeletableStatement:
		return m.MarkerDeletableStatement
	case *augment.EmptiableCompound:
		return m.MarkerEmptiableCompound
	case *augment.KnownFalse:
		return m.MarkerKnownFalse
	case *augment.KnownTrue:
		return m.MarkerKnownTrue
	case *augment.DeadCodeFragment:
		return m.MarkerDeadCodeFragment
	default:
		return m.MarkerKind(fmt.Sprintf("unknown(%T)", marker))
	}
}

func markerSnippet(marker augment.Marker) string {
	p := printer.New(printer.Options{OmitCommentary: true})

	switch node := marker.(type) {
	case ast.Expr:
		return p.PrintExpr(node)
	case ast.Stmt:
		return firstLine(p.PrintStmt(node))
	default:
		return ""
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}

	return s
}

// StreamMarkers streams marker summaries for jobs received from a channel.
// It returns a channel of marker infos and a channel for errors.
func (sc *scanner) StreamMarkers(ctx context.Context, jobs <-chan m.Job, threads int, kinds ...m.MarkerKind) (<-chan m.MarkerInfo, <-chan error) {
	bufferSize := threads
	if bufferSize <= 0 {
		bufferSize = 1
	}

	infoCh := make(chan m.MarkerInfo, bufferSize)
	errCh := make(chan error, 1)

	go func() {
		defer close(infoCh)
		defer close(errCh)

		for job := range jobs {
			if ctx.Err() != nil {
				errCh <- ctx.Err()
				return
			}

			infos, err := sc.ScanMarkers(ctx, job, kinds...)
			if err != nil {
				errCh <- err
				return
			}

			if !sendInfos(ctx, infos, infoCh, errCh) {
				return
			}
		}
	}()

	return infoCh, errCh
}

// sendInfos sends marker infos to the channel, respecting context
// cancellation. Returns false if the context was cancelled.
func sendInfos(ctx context.Context, infos []m.MarkerInfo, infoCh chan<- m.MarkerInfo, errCh chan<- error) bool {
	for _, info := range infos {
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
			return false
		case infoCh <- info:
		}
	}

	return true
}
