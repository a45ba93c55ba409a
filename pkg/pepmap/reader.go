package pepmap

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
)

// LoadStats reports what happened while loading a mapping file. Skipped rows
// are local recoverable conditions; callers surface them as counted warnings.
type LoadStats struct {
	Rows           int
	Skipped        int
	HeaderDetected bool
}

// Load reads a tab-delimited peptide-to-protein mapping file with columns
// Peptide, Protein, Residue_Start, Residue_End. An optional header line is
// auto-detected by testing whether column 3 of the first row parses as an
// integer. Gzip input is handled transparently. The returned list is NOT
// sorted; callers must call Sort once before resolving.
func Load(path string) (List, LoadStats, error) {
	var stats LoadStats

	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer fh.Close()

	var list List
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, ok := parseRow(line)
		if first {
			first = false
			if !ok {
				// column 3 did not parse as an integer, so this is a header
				stats.HeaderDetected = true
				continue
			}
		}
		if !ok {
			stats.Skipped++
			continue
		}

		list = append(list, entry)
		stats.Rows++
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("error reading mapping file: %w", err)
	}

	return list, stats, nil
}

func parseRow(line string) (Entry, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 4 {
		return Entry{}, false
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Entry{}, false
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Peptide:      strings.TrimSpace(parts[0]),
		Protein:      strings.TrimSpace(parts[1]),
		ResidueStart: start,
		ResidueEnd:   end,
	}, true
}
