// Package fdr computes false discovery rates and Q-values over a
// confidence-ordered result list.
package fdr

import "github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"

// Compute assigns FDR and QValue to every result. Results must be ordered by
// descending confidence, best match first; that ordering is the caller's
// responsibility and is not enforced here.
//
// The forward pass tracks running forward and reverse counts and stores
// FDR = reverse/forward (1 when no forward hit has been seen yet). The
// backward pass assigns each result the minimum FDR at or below its rank,
// clamped at 1, so Q-values form the monotone envelope of the FDR curve and
// QValue <= FDR holds at every rank.
func Compute(results []*core.SearchResult) {
	if len(results) == 0 {
		return
	}

	forwardCount := 0
	reverseCount := 0
	for _, res := range results {
		if res.IsReverse {
			reverseCount++
		} else {
			forwardCount++
		}
		if forwardCount > 0 {
			res.FDR = float64(reverseCount) / float64(forwardCount)
		} else {
			res.FDR = 1
		}
	}

	runningMin := results[len(results)-1].FDR
	if runningMin > 1 {
		runningMin = 1
	}
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].FDR < runningMin {
			runningMin = results[i].FDR
		}
		results[i].QValue = runningMin
	}
}
