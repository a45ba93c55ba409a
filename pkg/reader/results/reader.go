// Package results provides a streaming reader for the tool-agnostic
// normalized PSM format. Per-tool adapters (X!Tandem, SEQUEST, MSGF+,
// MaxQuant, MSFragger) emit this format; the normalization engine consumes
// it uniformly without knowing which tool produced it.
package results

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/textutil"
)

// Columns of the normalized PSM format, tab-delimited with an optional
// header: Result_ID, Dataset, Peptide (with X.SEQUENCE.Y context), Protein,
// Monoisotopic_Mass, MSGF_SpecProb, Mod_Description (tag:position list).
const expectedColumns = 7

// Reader provides streaming access to normalized PSM files.
type Reader struct {
	scanner *bufio.Scanner
	mods    *core.ModificationRegistry

	lineNum    int
	headerSeen bool
	current    *core.SearchResult
	err        error

	// Skipped counts malformed lines passed over with a warning.
	Skipped int
}

// NewReader creates a reader over r. Modification masses are resolved through
// mods; a nil registry falls back to the default tag set.
func NewReader(r io.Reader, mods *core.ModificationRegistry) *Reader {
	if mods == nil {
		mods = core.DefaultModificationRegistry()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{
		scanner: sc,
		mods:    mods,
	}
}

// Next advances to the next result. Returns false at end of input or on a
// read error; malformed lines are skipped and counted, not fatal.
func (r *Reader) Next() bool {
	r.current = nil

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimRight(r.scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		res, ok := r.parseLine(line)
		if !ok {
			// first unparseable line is the header
			if !r.headerSeen && r.lineNum == 1 {
				r.headerSeen = true
				continue
			}
			r.Skipped++
			continue
		}

		r.current = res
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("error reading results at line %d: %w", r.lineNum, err)
	}
	return false
}

// Result returns the current result.
func (r *Reader) Result() *core.SearchResult { return r.current }

// Err returns any error encountered during reading.
func (r *Reader) Err() error { return r.err }

func (r *Reader) parseLine(line string) (*core.SearchResult, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < expectedColumns-1 {
		return nil, false
	}

	resultID, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, false
	}

	prefix, clean, suffix := core.SplitPeptideContext(strings.TrimSpace(parts[2]))
	if clean == "" {
		return nil, false
	}

	res := &core.SearchResult{
		ResultID:      resultID,
		Dataset:       strings.TrimSpace(parts[1]),
		PrefixResidue: prefix,
		CleanSequence: clean,
		SuffixResidue: suffix,
		Protein:       strings.TrimSpace(parts[3]),
	}
	res.IsReverse = core.IsReversedProtein(res.Protein)

	res.MonoisotopicMass = textutil.ParseFloat(parts[4], 0)
	res.SpecProb = textutil.ParseFloat(parts[5], 0)

	if len(parts) >= expectedColumns {
		res.Modifications = r.parseModDescription(strings.TrimSpace(parts[6]), clean)
	}

	if res.MonoisotopicMass == 0 {
		res.MonoisotopicMass = core.ComputeMonoisotopicMass(clean, res.Modifications)
	}

	return res, true
}

// parseModDescription parses a "tag:position,tag:position" list against the
// clean sequence. Unknown tags are auto-discovered with zero mass; malformed
// entries are dropped.
func (r *Reader) parseModDescription(desc, clean string) []core.LocatedModification {
	if desc == "" {
		return nil
	}

	var mods []core.LocatedModification
	for _, part := range strings.Split(desc, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.LastIndex(part, ":")
		if idx <= 0 {
			continue
		}
		tag := part[:idx]
		pos, err := strconv.Atoi(part[idx+1:])
		if err != nil || pos < 0 {
			continue
		}

		mod := core.LocatedModification{
			ResidueLocInPeptide: pos,
			MassCorrectionTag:   tag,
		}
		if def, ok := r.mods.Lookup(tag); ok {
			mod.ModMass = def.ModMass
		}
		if pos >= 1 && pos <= len(clean) {
			mod.Residue = clean[pos-1]
		} else {
			mod.Residue = '-'
		}
		mods = append(mods, mod)
	}

	core.SortModifications(mods)
	return mods
}
