package pepmap

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/shenwei356/xopen"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
)

// ValidateOptions controls mapping file acceptance.
type ValidateOptions struct {
	IgnoreErrors    bool
	MaxErrorPercent float64 // typical 0.1; relaxed to 50 for some tool adapters
	WarnPercent     float64
}

// ValidateResult reports the outcome of a validation pass. Warning is
// non-empty when the file was accepted but the error rate reached the warn
// threshold; callers must surface it.
type ValidateResult struct {
	TotalPeptides   int
	NoMatchPeptides int
	ErrorPercent    float64
	Warning         string
}

// Validate scans a sorted mapping file once, counting distinct peptides by
// run-length comparison on the peptide column and the subset whose protein is
// the no-match sentinel. The file is accepted when IgnoreErrors is set or the
// error percentage is strictly below MaxErrorPercent; a file exactly at the
// threshold is rejected. An empty mapping file is always rejected.
func Validate(path string, opts ValidateOptions) (ValidateResult, error) {
	res, err := scanErrorRate(path)
	if err != nil {
		return res, err
	}

	if res.TotalPeptides == 0 {
		return res, core.ErrMappingFileEmpty
	}

	res.ErrorPercent = float64(res.NoMatchPeptides) / float64(res.TotalPeptides) * 100

	if !opts.IgnoreErrors && res.ErrorPercent >= opts.MaxErrorPercent {
		return res, fmt.Errorf("%w: %.4f%% of %d peptides had no match (limit %.4f%%)",
			core.ErrMappingErrorRate, res.ErrorPercent, res.TotalPeptides, opts.MaxErrorPercent)
	}

	if res.ErrorPercent >= opts.WarnPercent && opts.WarnPercent > 0 {
		res.Warning = fmt.Sprintf("%.4f%% of %d peptides did not match a protein in the FASTA file",
			res.ErrorPercent, res.TotalPeptides)
	}

	return res, nil
}

// defaultMaxErrorPercent is the hard-coded threshold of the internal
// validation overload. It intentionally diverges from Validate: no ignore
// flag and no warning path. Both literal behaviors are preserved.
const defaultMaxErrorPercent = 0.1

// ValidateDefault checks a mapping file against the fixed 0.1% threshold
// with no warning path.
func ValidateDefault(path string) error {
	res, err := scanErrorRate(path)
	if err != nil {
		return err
	}
	if res.TotalPeptides == 0 {
		return core.ErrMappingFileEmpty
	}

	errorPercent := float64(res.NoMatchPeptides) / float64(res.TotalPeptides) * 100
	if errorPercent >= defaultMaxErrorPercent {
		return fmt.Errorf("%w: %.4f%% of %d peptides had no match (limit %.4f%%)",
			core.ErrMappingErrorRate, errorPercent, res.TotalPeptides, defaultMaxErrorPercent)
	}
	return nil
}

func scanErrorRate(path string) (ValidateResult, error) {
	var res ValidateResult

	fh, err := xopen.Ropen(path)
	if err != nil {
		return res, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	prevPeptide := ""
	first := true
	runNoMatch := false

	flush := func() {
		if prevPeptide == "" {
			return
		}
		res.TotalPeptides++
		if runNoMatch {
			res.NoMatchPeptides++
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		if first {
			first = false
			if _, ok := parseRow(line); !ok {
				// header line
				continue
			}
		}

		peptide := strings.TrimSpace(parts[0])
		protein := strings.TrimSpace(parts[1])

		if peptide != prevPeptide {
			flush()
			prevPeptide = peptide
			runNoMatch = protein == core.NoMatchSentinel
			continue
		}
		// a peptide counts as matched when any of its rows names a protein
		if protein != core.NoMatchSentinel {
			runNoMatch = false
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("error reading mapping file: %w", err)
	}

	return res, nil
}
