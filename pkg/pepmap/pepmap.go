// Package pepmap resolves peptides to protein coordinates using the sorted
// mapping file produced by the external peptide-to-protein mapping engine.
package pepmap

import (
	"sort"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
)

// Entry is one peptide-to-protein mapping row.
type Entry struct {
	Peptide      string
	Protein      string
	ResidueStart int // 1-based position of the peptide in the protein
	ResidueEnd   int
}

// List is an indexed, mutable-in-place array of mapping entries. There is one
// entry per (peptide, protein) match, and entries for the same peptide are
// contiguous once sorted.
type List []Entry

// Sort orders the list by peptide using ordinal comparison. FindFirstMatch
// requires a sorted list; callers sort once after loading, the resolver never
// re-sorts lazily.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Peptide < l[j].Peptide
	})
}

// FindFirstMatch binary-searches for peptide and returns the index of the
// first entry of the contiguous run of same-peptide entries. When the peptide
// is absent it returns the bitwise complement of the insertion point, a
// negative sentinel. Callers walk forward from the returned index while the
// peptide still matches, one protein per step.
func (l List) FindFirstMatch(peptide string) int {
	idx := sort.Search(len(l), func(i int) bool {
		return l[i].Peptide >= peptide
	})
	if idx >= len(l) || l[idx].Peptide != peptide {
		return ^idx
	}

	// sort.Search already lands on the first of the run; the backward walk
	// guards against future search strategies that may land mid-run.
	for idx > 0 && l[idx-1].Peptide == peptide {
		idx--
	}
	return idx
}

// RewritePeptides applies fn to every peptide in place. This is the one
// mutation path callers use to re-key entries, for example after suffix
// stripping. The list must be re-sorted afterwards.
func (l List) RewritePeptides(fn func(string) string) {
	for i := range l {
		l[i].Peptide = fn(l[i].Peptide)
	}
}

// IsReversed reports whether the protein name uses any of the decoy naming
// conventions recognized across the supported search tools.
func IsReversed(proteinName string) bool {
	return core.IsReversedProtein(proteinName)
}
