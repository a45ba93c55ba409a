// Package core provides the intermediate representation (IR) models and
// validation logic for normalized peptide identification results used by
// pepnorm.
package core

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/textutil"
)

// SearchResult represents one PSM-protein association produced by a search
// tool adapter, with tool-specific context already stripped away.
type SearchResult struct {
	// Required fields
	ResultID      int    // Input-order result identifier
	CleanSequence string // Peptide sequence, letters only, context removed
	PrefixResidue string // Residue preceding the peptide ("-" at protein N-terminus)
	SuffixResidue string // Residue following the peptide ("-" at protein C-terminus)
	Protein       string // Primary protein name reported by the tool

	// Located modifications, ordered by SortModifications before emission
	Modifications []LocatedModification

	MonoisotopicMass float64

	// Protein coordinates (1-based); pseudo-values when the tool reports none
	ProteinStart int
	ProteinEnd   int

	// Confidence fields; zero values mean "not reported"
	SpecProb    float64 // Spectral probability or equivalent ranking score
	Expectation float64
	FDR         float64
	QValue      float64

	// Decoy classification of the primary protein, computed once on creation
	IsReverse bool

	Dataset string // Source dataset name, used for multi-dataset base names
}

// LocatedModification is a single modification placed on a peptide residue.
type LocatedModification struct {
	ResidueLocInPeptide int    // 1-based position in the clean sequence; 0 allowed for N-term markers
	Residue             byte   // Residue character as reported; may be a terminus symbol
	MassCorrectionTag   string // Short text ID for the modification mass
	ModMass             float64
}

// ValidationError represents an error found during result validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Validate checks that a result meets the requirements for normalization.
func (r *SearchResult) Validate() error {
	var errs []string

	if r.CleanSequence == "" {
		errs = append(errs, "clean sequence is required")
	}
	for i := 0; i < len(r.CleanSequence); i++ {
		if !textutil.IsLetter(r.CleanSequence[i]) {
			errs = append(errs, fmt.Sprintf("clean sequence contains non-letter %q", r.CleanSequence[i]))
			break
		}
	}
	if r.ResultID < 0 {
		errs = append(errs, "result ID must be non-negative")
	}
	if math.IsNaN(r.MonoisotopicMass) || math.IsInf(r.MonoisotopicMass, 0) {
		errs = append(errs, "monoisotopic mass is not finite")
	}

	for i, mod := range r.Modifications {
		if mod.ResidueLocInPeptide < 0 {
			errs = append(errs, fmt.Sprintf("modification %d has negative residue location", i))
		}
		if mod.MassCorrectionTag == "" {
			errs = append(errs, fmt.Sprintf("modification %d has empty mass correction tag", i))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "SearchResult",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// SortModifications orders mods by ascending residue position, ties broken by
// ordinal comparison of the mass correction tag. This is the canonical order
// for ModDetails rows and modification descriptions.
func SortModifications(mods []LocatedModification) {
	sort.SliceStable(mods, func(i, j int) bool {
		if mods[i].ResidueLocInPeptide != mods[j].ResidueLocInPeptide {
			return mods[i].ResidueLocInPeptide < mods[j].ResidueLocInPeptide
		}
		return mods[i].MassCorrectionTag < mods[j].MassCorrectionTag
	})
}

// ResidueAt resolves the residue character for a modification at the given
// 1-based peptide position. If the recorded residue is a plain letter it is
// used as-is; otherwise the clean sequence is consulted, clamping positions
// below 1 to the first residue and positions past the end to the last
// (terminal modification markers carry no real residue letter).
func (r *SearchResult) ResidueAt(recorded byte, position int) byte {
	if textutil.IsLetter(recorded) {
		return recorded
	}
	if r.CleanSequence == "" {
		return recorded
	}
	idx := position - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(r.CleanSequence) {
		idx = len(r.CleanSequence) - 1
	}
	return r.CleanSequence[idx]
}

// TotalModMass returns the sum of all modification masses.
func (r *SearchResult) TotalModMass() float64 {
	total := 0.0
	for _, mod := range r.Modifications {
		total += mod.ModMass
	}
	return total
}

// SplitPeptideContext splits a peptide of the form "K.ACDEFGHIK.L" into its
// prefix residue, central sequence, and suffix residue. Peptides without
// context come back with empty prefix and suffix. Non-letter characters are
// removed from the returned central sequence.
func SplitPeptideContext(peptide string) (prefix, clean, suffix string) {
	clean = peptide
	if len(peptide) >= 4 {
		first := strings.Index(peptide, ".")
		last := strings.LastIndex(peptide, ".")
		if first == 1 && last == len(peptide)-2 && last > first {
			prefix = peptide[:1]
			suffix = peptide[last+1:]
			clean = peptide[first+1 : last]
		}
	}

	var b strings.Builder
	for i := 0; i < len(clean); i++ {
		if textutil.IsLetter(clean[i]) {
			b.WriteByte(clean[i])
		}
	}
	return prefix, b.String(), suffix
}
