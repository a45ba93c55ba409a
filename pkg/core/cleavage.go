// Cleavage and terminus state calculation for the SeqToProteinMap stream.
package core

// TerminusState describes where a peptide sits in its protein.
type TerminusState int

const (
	TerminusNone TerminusState = iota // interior peptide
	TerminusProteinNTerm
	TerminusProteinCTerm
	TerminusProteinNAndCTerm
)

// CleavageState is the number of enzymatic termini under trypsin rules.
type CleavageState int

const (
	CleavageNonSpecific CleavageState = iota
	CleavagePartial
	CleavageFull
)

// ComputeTerminusState derives the terminus state from the peptide's context
// residues; "-" marks a protein terminus.
func (r *SearchResult) ComputeTerminusState() TerminusState {
	nTerm := r.PrefixResidue == "-"
	cTerm := r.SuffixResidue == "-"
	switch {
	case nTerm && cTerm:
		return TerminusProteinNAndCTerm
	case nTerm:
		return TerminusProteinNTerm
	case cTerm:
		return TerminusProteinCTerm
	default:
		return TerminusNone
	}
}

// ComputeCleavageState derives the tryptic cleavage state: cleavage after K
// or R when not followed by P. A protein terminus counts as a valid boundary.
func (r *SearchResult) ComputeCleavageState() CleavageState {
	if r.CleanSequence == "" {
		return CleavageNonSpecific
	}

	nTryptic := false
	switch r.PrefixResidue {
	case "-":
		nTryptic = true
	case "K", "R":
		nTryptic = r.CleanSequence[0] != 'P'
	}

	cTryptic := false
	last := r.CleanSequence[len(r.CleanSequence)-1]
	if r.SuffixResidue == "-" {
		cTryptic = true
	} else if (last == 'K' || last == 'R') && r.SuffixResidue != "P" {
		cTryptic = true
	}

	switch {
	case nTryptic && cTryptic:
		return CleavageFull
	case nTryptic || cTryptic:
		return CleavagePartial
	default:
		return CleavageNonSpecific
	}
}
