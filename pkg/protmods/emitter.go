// Package protmods joins located modifications with protein coordinates to
// emit residue-level protein modification rows.
package protmods

import (
	"fmt"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/pepmap"
)

// Sink receives one row per (result, protein mapping, modification) triple.
type Sink interface {
	WriteProteinMod(resultID int, peptide string, seqID int, protein string,
		residue byte, proteinResidueNum int, modName string,
		peptideResidueNum int, specProb float64) error
}

// Emitter writes protein modification detail rows. Counters record emitted
// rows and rows skipped because a no-match mapping belonged to a decoy PSM.
type Emitter struct {
	Sink Sink

	Emitted         int
	SkippedReversed int
}

// EmitForMapping emits one row per located modification of res against the
// given mapping entry. When the mapping resolved to the no-match sentinel and
// the PSM's primary protein is itself a decoy, the rows are skipped and
// counted instead, keeping decoy noise out of the residue-level output.
func (e *Emitter) EmitForMapping(res *core.SearchResult, seqID int, m pepmap.Entry) error {
	if core.Classify(m.Protein) == core.ClassNoMatch && res.IsReverse {
		e.SkippedReversed++
		return nil
	}

	for _, mod := range res.Modifications {
		proteinResidueNum := m.ResidueStart + mod.ResidueLocInPeptide - 1
		residue := res.ResidueAt(mod.Residue, mod.ResidueLocInPeptide)

		if e.Sink == nil {
			continue
		}
		err := e.Sink.WriteProteinMod(res.ResultID, res.CleanSequence, seqID,
			m.Protein, residue, proteinResidueNum, mod.MassCorrectionTag,
			mod.ResidueLocInPeptide, res.SpecProb)
		if err != nil {
			return fmt.Errorf("failed to write ProteinMods row for result %d: %w", res.ResultID, err)
		}
		e.Emitted++
	}

	return nil
}

// terminusMarker is the residue character adapters record when the peptide
// context is the protein terminus rather than a real residue.
const terminusMarker = "-"

// Pseudo protein coordinates used when the upstream tool reports none.
const (
	pseudoProteinStart = 1
	pseudoProteinEnd   = 10000
)

// PseudoProteinLocation derives peptide and protein coordinates for tools
// that report no real protein positions. The protein spans the sentinel range
// 1..10000; the peptide is pinned to whichever terminus its context markers
// indicate, or placed just inside the N-terminus when interior. A peptide too
// long for the sentinel range extends the protein end instead of overflowing.
func PseudoProteinLocation(res *core.SearchResult) (pepStart, pepEnd, protStart, protEnd int) {
	protStart = pseudoProteinStart
	protEnd = pseudoProteinEnd
	seqLen := len(res.CleanSequence)

	switch {
	case res.PrefixResidue == terminusMarker:
		pepStart = protStart
		pepEnd = pepStart + seqLen - 1
		if res.SuffixResidue == terminusMarker {
			// peptide spans the whole protein
			protEnd = pepEnd
		}
	case res.SuffixResidue == terminusMarker:
		pepEnd = protEnd
		pepStart = pepEnd - seqLen + 1
	default:
		pepStart = protStart + 1
		pepEnd = pepStart + seqLen - 1
	}

	if pepEnd > protEnd {
		protEnd = pepEnd
	}

	return pepStart, pepEnd, protStart, protEnd
}
