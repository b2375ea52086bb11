package domain

import (
	m "github.com/mc-imperial/wgsl-fuzz-sub001/internal/model"
	pkg "github.com/mc-imperial/wgsl-fuzz-sub001/pkg"
)

// reductionScoreFromAttempts computes the fraction of tried reversals that
// were accepted. Skipped and errored attempts are excluded from the
// denominator.
func reductionScoreFromAttempts(attempts pkg.FileSpill[m.Attempt]) (float64, error) {
	accepted := 0
	total := 0

	err := attempts.Range(func(_ uint64, attempt m.Attempt) error {
		switch attempt.Status {
		case m.Accepted:
			accepted++
			total++
		case m.Rejected:
			total++
		case m.Skipped, m.Error:
			// Not a verdict on the reversal itself.
		}

		return nil
	})
	if err != nil {
		return 0.0, err
	}

	if total == 0 {
		return 0.0, nil
	}

	return float64(accepted) / float64(total), nil
}

// ScoreReports computes the accepted fraction across every attempt in the
// given reports, with the same exclusions as the per-job score.
func ScoreReports(reports []m.Report) float64 {
	accepted := 0
	total := 0

	for _, report := range reports {
		for _, entries := range report.Attempts {
			for _, attempt := range entries {
				switch attempt.Status {
				case m.Accepted:
					accepted++
					total++
				case m.Rejected:
					total++
				case m.Skipped, m.Error:
				}
			}
		}
	}

	if total == 0 {
		return 0.0
	}

	return float64(accepted) / float64(total)
}
