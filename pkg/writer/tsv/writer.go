// Package tsv writes the tab-delimited output streams of a normalization
// run: ResultToSeqMap, SeqInfo, ModDetails, SeqToProteinMap, ProteinMods,
// and the run-level ModSummary.
package tsv

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shenwei356/xopen"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
)

// Output file suffixes, appended to the run base name.
const (
	SuffixResultToSeqMap  = "_ResultToSeqMap.txt"
	SuffixSeqInfo         = "_SeqInfo.txt"
	SuffixModDetails      = "_ModDetails.txt"
	SuffixSeqToProteinMap = "_SeqToProteinMap.txt"
	SuffixProteinMods     = "_ProteinMods.txt"
	SuffixModSummary      = "_ModSummary.txt"
)

type stream struct {
	fh     *xopen.Writer
	path   string
	header string
	failed bool
}

// OutputSet manages the output streams of one run. Files are created on
// first write; the ProteinMods stream degrades to a counted soft failure
// when it cannot be created, any other creation failure stops the run.
type OutputSet struct {
	resultToSeq  stream
	seqInfo      stream
	modDetails   stream
	seqToProtein stream
	proteinMods  stream
	modSummary   stream

	// Warnings collects soft-failure messages for the caller to surface.
	Warnings []string

	// DroppedProteinMods counts rows discarded after a ProteinMods soft
	// failure.
	DroppedProteinMods int
}

// NewOutputSet prepares an output set under dir using baseName for file
// naming. The directory is created when missing; failure to do so is an
// output path error.
func NewOutputSet(dir, baseName string) (*OutputSet, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidOutputPath, dir, err)
	}

	base := filepath.Join(dir, baseName)
	return &OutputSet{
		resultToSeq: stream{
			path:   base + SuffixResultToSeqMap,
			header: "Result_ID\tUnique_Seq_ID",
		},
		seqInfo: stream{
			path:   base + SuffixSeqInfo,
			header: "Unique_Seq_ID\tMod_Count\tMod_Description\tMonoisotopic_Mass",
		},
		modDetails: stream{
			path:   base + SuffixModDetails,
			header: "Unique_Seq_ID\tMass_Correction_Tag\tPosition",
		},
		seqToProtein: stream{
			path:   base + SuffixSeqToProteinMap,
			header: "Unique_Seq_ID\tCleavage_State\tTerminus_State\tProtein_Name\tProtein_Expectation_Value_Log(e)\tProtein_Intensity_Log(I)",
		},
		proteinMods: stream{
			path:   base + SuffixProteinMods,
			header: "ResultID\tPeptide\tUnique_Seq_ID\tProtein_Name\tResidue\tProtein_Residue_Num\tMod_Name\tPeptide_Residue_Num\tMSGF_SpecProb",
		},
		modSummary: stream{
			path:   base + SuffixModSummary,
			header: "Mass_Correction_Tag\tSymbol\tMod_Mass\tOccurrence_Count",
		},
	}, nil
}

func (s *stream) ensure() error {
	if s.fh != nil || s.failed {
		return nil
	}
	fh, err := xopen.Wopen(s.path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrOutputCreation, s.path, err)
	}
	s.fh = fh
	_, err = fmt.Fprintln(fh, s.header)
	return err
}

func (s *stream) writeRow(fields ...string) error {
	if err := s.ensure(); err != nil {
		return err
	}
	if s.failed {
		return nil
	}
	for i, f := range fields {
		if i > 0 {
			if _, err := s.fh.WriteString("\t"); err != nil {
				return err
			}
		}
		if _, err := s.fh.WriteString(f); err != nil {
			return err
		}
	}
	_, err := s.fh.WriteString("\n")
	return err
}

// WriteResultToSeqMap records the result ID to unique sequence ID pairing.
func (o *OutputSet) WriteResultToSeqMap(resultID, seqID int) error {
	return o.resultToSeq.writeRow(strconv.Itoa(resultID), strconv.Itoa(seqID))
}

// WriteSeqInfo writes one first-sighting row to the SeqInfo stream.
// Implements unique.SeqInfoSink.
func (o *OutputSet) WriteSeqInfo(seqID, modCount int, modDescription string, monoisotopicMass float64) error {
	return o.seqInfo.writeRow(
		strconv.Itoa(seqID),
		strconv.Itoa(modCount),
		modDescription,
		formatMass(monoisotopicMass),
	)
}

// WriteModDetail writes one modification row to the ModDetails stream.
// Implements unique.SeqInfoSink.
func (o *OutputSet) WriteModDetail(seqID int, massCorrectionTag string, position int) error {
	return o.modDetails.writeRow(
		strconv.Itoa(seqID),
		massCorrectionTag,
		strconv.Itoa(position),
	)
}

// WriteSeqToProteinMap writes one row to the SeqToProteinMap stream.
func (o *OutputSet) WriteSeqToProteinMap(seqID int, cleavageState core.CleavageState,
	terminusState core.TerminusState, protein string, protExpValueLog, protIntensityLog float64) error {
	return o.seqToProtein.writeRow(
		strconv.Itoa(seqID),
		strconv.Itoa(int(cleavageState)),
		strconv.Itoa(int(terminusState)),
		protein,
		formatScore(protExpValueLog),
		formatScore(protIntensityLog),
	)
}

// WriteProteinMod writes one residue-level row to the ProteinMods stream.
// A creation failure here is a soft failure: the run continues, the row is
// dropped and counted, and a warning is recorded once. Implements
// protmods.Sink.
func (o *OutputSet) WriteProteinMod(resultID int, peptide string, seqID int, protein string,
	residue byte, proteinResidueNum int, modName string, peptideResidueNum int, specProb float64) error {
	if err := o.proteinMods.ensure(); err != nil {
		o.proteinMods.failed = true
		o.Warnings = append(o.Warnings,
			fmt.Sprintf("skipping ProteinMods output: %v", err))
	}
	if o.proteinMods.failed {
		o.DroppedProteinMods++
		return nil
	}
	return o.proteinMods.writeRow(
		strconv.Itoa(resultID),
		peptide,
		strconv.Itoa(seqID),
		protein,
		string(residue),
		strconv.Itoa(proteinResidueNum),
		modName,
		strconv.Itoa(peptideResidueNum),
		formatSpecProb(specProb),
	)
}

// WriteModSummary writes the run-level modification summary.
func (o *OutputSet) WriteModSummary(defs []core.ModificationDefinition) error {
	for _, def := range defs {
		err := o.modSummary.writeRow(
			def.MassCorrectionTag,
			def.Symbol,
			formatMass(def.ModMass),
			strconv.Itoa(def.OccurrenceCount),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes every open stream.
func (o *OutputSet) Close() error {
	var firstErr error
	for _, s := range []*stream{
		&o.resultToSeq, &o.seqInfo, &o.modDetails,
		&o.seqToProtein, &o.proteinMods, &o.modSummary,
	} {
		if s.fh == nil {
			continue
		}
		if err := s.fh.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close %s: %w", s.path, err)
		}
		s.fh = nil
	}
	return firstErr
}

func formatMass(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSpecProb(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'E', 4, 64)
}
