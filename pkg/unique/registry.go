// Package unique assigns stable sequence IDs to distinct peptide and
// modification combinations and suppresses duplicate sequence-to-protein
// rows within one processing run.
package unique

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/textutil"
)

// SeqInfoSink receives the rows emitted on the first sighting of a unique
// sequence. pkg/writer/tsv provides the file-backed implementation; tests
// use in-memory fakes.
type SeqInfoSink interface {
	WriteSeqInfo(seqID, modCount int, modDescription string, monoisotopicMass float64) error
	WriteModDetail(seqID int, massCorrectionTag string, position int) error
}

// decimal places kept for the Monoisotopic_Mass column
const massDecimals = 5

// Registry tracks unique (clean sequence, modification description) pairs for
// one run. It is caller-owned; create one per run and Reset it at the start
// of each processed file.
type Registry struct {
	sink SeqInfoSink
	mods *core.ModificationRegistry

	seqIDs       map[string]int
	nextID       int
	seqToProtein map[string]struct{}
}

// NewRegistry creates a registry that emits first-sighting rows to sink and
// counts modification occurrences in mods. A nil sink suppresses emission.
func NewRegistry(sink SeqInfoSink, mods *core.ModificationRegistry) *Registry {
	if mods == nil {
		mods = core.NewModificationRegistry()
	}
	return &Registry{
		sink:         sink,
		mods:         mods,
		seqIDs:       make(map[string]int),
		nextID:       1,
		seqToProtein: make(map[string]struct{}),
	}
}

// Reset clears all per-run state. ID assignment restarts at 1.
func (r *Registry) Reset() {
	r.seqIDs = make(map[string]int)
	r.nextID = 1
	r.seqToProtein = make(map[string]struct{})
}

// Count returns the number of unique sequences seen so far.
func (r *Registry) Count() int { return len(r.seqIDs) }

// GetOrCreateSequenceID returns the ID for the given pair, allocating a fresh
// one on first sighting. IDs are dense integers starting at 1 in
// first-sighting order and are never reused within a run.
func (r *Registry) GetOrCreateSequenceID(cleanSequence, modDescription string) (id int, existing bool) {
	key := cleanSequence + "_" + modDescription
	if id, ok := r.seqIDs[key]; ok {
		return id, true
	}
	id = r.nextID
	r.nextID++
	r.seqIDs[key] = id
	return id, false
}

// ModificationDescription builds the canonical description for a
// modification list: mass correction tags ordered by residue position, ties
// broken alphabetically, rendered as "tag:position" joined with commas.
func ModificationDescription(mods []core.LocatedModification) string {
	if len(mods) == 0 {
		return ""
	}

	ordered := make([]core.LocatedModification, len(mods))
	copy(ordered, mods)
	core.SortModifications(ordered)

	parts := make([]string, 0, len(ordered))
	for _, m := range ordered {
		parts = append(parts, m.MassCorrectionTag+":"+strconv.Itoa(m.ResidueLocInPeptide))
	}
	return strings.Join(parts, ",")
}

// ProcessResult assigns (or reuses) the unique sequence ID for res. On first
// sighting it writes one SeqInfo row and one ModDetails row per modification
// in canonical order, incrementing each modification's occurrence counter.
func (r *Registry) ProcessResult(res *core.SearchResult) (id int, existing bool, err error) {
	modDescription := ModificationDescription(res.Modifications)

	id, existing = r.GetOrCreateSequenceID(res.CleanSequence, modDescription)
	if existing {
		return id, true, nil
	}

	if r.sink != nil {
		mass := textutil.RoundSignificant(res.MonoisotopicMass, massDecimals)
		if err := r.sink.WriteSeqInfo(id, len(res.Modifications), modDescription, mass); err != nil {
			return id, false, fmt.Errorf("failed to write SeqInfo row for sequence %d: %w", id, err)
		}
	}

	ordered := make([]core.LocatedModification, len(res.Modifications))
	copy(ordered, res.Modifications)
	core.SortModifications(ordered)

	for _, m := range ordered {
		r.mods.Increment(m.MassCorrectionTag, m.ModMass)
		if r.sink == nil {
			continue
		}
		if err := r.sink.WriteModDetail(id, m.MassCorrectionTag, m.ResidueLocInPeptide); err != nil {
			return id, false, fmt.Errorf("failed to write ModDetails row for sequence %d: %w", id, err)
		}
	}

	return id, false, nil
}

// CheckSeqToProteinMapDefined records the (sequence ID, protein) pair and
// reports whether it was already known. A malformed empty protein name is
// tolerated and keyed as "".
func (r *Registry) CheckSeqToProteinMapDefined(seqID int, proteinName string) bool {
	key := strconv.Itoa(seqID) + "_" + proteinName
	if _, ok := r.seqToProtein[key]; ok {
		return true
	}
	r.seqToProtein[key] = struct{}{}
	return false
}
