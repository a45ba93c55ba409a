// Mass correction tag registry and per-run occurrence counting.
package core

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ModType categorizes how a modification applies to a peptide.
type ModType int

const (
	ModTypeDynamic ModType = iota
	ModTypeStatic
	ModTypeTerminal
	ModTypeIsotopic
)

func (t ModType) String() string {
	switch t {
	case ModTypeStatic:
		return "static"
	case ModTypeTerminal:
		return "terminal"
	case ModTypeIsotopic:
		return "isotopic"
	default:
		return "dynamic"
	}
}

// ModificationDefinition describes one known modification, keyed by its mass
// correction tag.
type ModificationDefinition struct {
	MassCorrectionTag string
	Symbol            string
	ModMass           float64
	TargetResidues    string
	Type              ModType

	// OccurrenceCount is incremented once per emitted modification instance.
	OccurrenceCount int

	// AutoDiscovered marks definitions inferred from input rather than
	// explicitly configured; unused auto-discovered entries are excluded
	// from the final summary.
	AutoDiscovered bool
}

// ModificationRegistry stores modification definitions for one processing
// run. It is caller-owned and never shared between concurrent runs.
type ModificationRegistry struct {
	defs  map[string]*ModificationDefinition
	order []string // first-sighting order for stable summaries
}

// NewModificationRegistry creates an empty registry.
func NewModificationRegistry() *ModificationRegistry {
	return &ModificationRegistry{
		defs: make(map[string]*ModificationDefinition),
	}
}

// Add registers an explicitly configured definition, replacing any
// auto-discovered entry with the same tag.
func (mr *ModificationRegistry) Add(def ModificationDefinition) {
	def.AutoDiscovered = false
	if existing, ok := mr.defs[def.MassCorrectionTag]; ok {
		def.OccurrenceCount = existing.OccurrenceCount
		mr.defs[def.MassCorrectionTag] = &def
		return
	}
	mr.defs[def.MassCorrectionTag] = &def
	mr.order = append(mr.order, def.MassCorrectionTag)
}

// GetOrAdd returns the definition for tag, auto-discovering one with the
// given mass when the tag has never been seen.
func (mr *ModificationRegistry) GetOrAdd(tag string, modMass float64) *ModificationDefinition {
	if def, ok := mr.defs[tag]; ok {
		return def
	}
	def := &ModificationDefinition{
		MassCorrectionTag: tag,
		ModMass:           modMass,
		Type:              ModTypeDynamic,
		AutoDiscovered:    true,
	}
	mr.defs[tag] = def
	mr.order = append(mr.order, tag)
	return def
}

// Increment bumps the occurrence counter for tag, auto-discovering the
// definition when needed.
func (mr *ModificationRegistry) Increment(tag string, modMass float64) {
	mr.GetOrAdd(tag, modMass).OccurrenceCount++
}

// Lookup returns the definition for tag, if known.
func (mr *ModificationRegistry) Lookup(tag string) (*ModificationDefinition, bool) {
	def, ok := mr.defs[tag]
	return def, ok
}

// Len returns the number of registered definitions.
func (mr *ModificationRegistry) Len() int { return len(mr.defs) }

// Reset clears occurrence counters and drops auto-discovered definitions,
// preparing the registry for the next processed file.
func (mr *ModificationRegistry) Reset() {
	kept := mr.order[:0]
	for _, tag := range mr.order {
		def := mr.defs[tag]
		if def.AutoDiscovered {
			delete(mr.defs, tag)
			continue
		}
		def.OccurrenceCount = 0
		kept = append(kept, tag)
	}
	mr.order = kept
}

// Summary returns the definitions to report for a finished run: every
// explicitly configured definition, plus any auto-discovered definition that
// was actually used. Unused auto-discovered entries would only advertise
// inferred modifications that never occurred, so they are skipped.
func (mr *ModificationRegistry) Summary() []ModificationDefinition {
	out := make([]ModificationDefinition, 0, len(mr.order))
	for _, tag := range mr.order {
		def := mr.defs[tag]
		if def.AutoDiscovered && def.OccurrenceCount == 0 {
			continue
		}
		out = append(out, *def)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MassCorrectionTag < out[j].MassCorrectionTag
	})
	return out
}

// LoadFromTSV loads definitions from a tab-delimited stream with columns
// Mass_Correction_Tag, Mod_Mass, Target_Residues (optional), Type (optional).
// The first line is treated as a header when its second column does not parse
// as a number.
func (mr *ModificationRegistry) LoadFromTSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: expected at least 2 tab-separated fields", lineNum)
		}

		tag := strings.TrimSpace(parts[0])
		massStr := strings.TrimSpace(parts[1])

		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			if lineNum == 1 {
				// header row
				continue
			}
			return fmt.Errorf("line %d: invalid mod mass %q: %w", lineNum, massStr, err)
		}

		def := ModificationDefinition{
			MassCorrectionTag: tag,
			ModMass:           mass,
		}
		if len(parts) >= 3 {
			def.TargetResidues = strings.TrimSpace(parts[2])
		}
		if len(parts) >= 4 {
			def.Type = parseModType(strings.TrimSpace(parts[3]))
		}
		mr.Add(def)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading modification definitions: %w", err)
	}

	return nil
}

func parseModType(s string) ModType {
	switch strings.ToLower(s) {
	case "static", "s":
		return ModTypeStatic
	case "terminal", "t":
		return ModTypeTerminal
	case "isotopic", "i":
		return ModTypeIsotopic
	default:
		return ModTypeDynamic
	}
}

// DefaultModificationRegistry returns a registry pre-loaded with common
// mass correction tags.
func DefaultModificationRegistry() *ModificationRegistry {
	mr := NewModificationRegistry()

	common := []ModificationDefinition{
		{MassCorrectionTag: "IodoAcet", Symbol: "#", ModMass: 57.021464, TargetResidues: "C", Type: ModTypeStatic},
		{MassCorrectionTag: "Plus1Oxy", Symbol: "*", ModMass: 15.994915, TargetResidues: "M", Type: ModTypeDynamic},
		{MassCorrectionTag: "Phosph", Symbol: "~", ModMass: 79.966331, TargetResidues: "STY", Type: ModTypeDynamic},
		{MassCorrectionTag: "Acetyl", Symbol: "@", ModMass: 42.010565, TargetResidues: "K<", Type: ModTypeDynamic},
		{MassCorrectionTag: "Deamide", Symbol: "^", ModMass: 0.984016, TargetResidues: "NQ", Type: ModTypeDynamic},
		{MassCorrectionTag: "Methyl", Symbol: "$", ModMass: 14.01565, TargetResidues: "KR", Type: ModTypeDynamic},
		{MassCorrectionTag: "Dimethyl", Symbol: "&", ModMass: 28.0313, TargetResidues: "K", Type: ModTypeDynamic},
		{MassCorrectionTag: "TriMeth", Symbol: "!", ModMass: 42.04695, TargetResidues: "K", Type: ModTypeDynamic},
		{MassCorrectionTag: "Carbamyl", Symbol: "=", ModMass: 43.005814, TargetResidues: "<", Type: ModTypeTerminal},
		{MassCorrectionTag: "PyroGlu", Symbol: "+", ModMass: -17.026549, TargetResidues: "Q", Type: ModTypeDynamic},
		{MassCorrectionTag: "Dehydro", Symbol: "-", ModMass: -18.010565, TargetResidues: "ST", Type: ModTypeDynamic},
		{MassCorrectionTag: "TMT6Tag", Symbol: "%", ModMass: 229.162932, TargetResidues: "K<", Type: ModTypeIsotopic},
		{MassCorrectionTag: "TMT16Tag", Symbol: "?", ModMass: 304.207146, TargetResidues: "K<", Type: ModTypeIsotopic},
		{MassCorrectionTag: "iTRAQ8", Symbol: ">", ModMass: 304.205360, TargetResidues: "K<", Type: ModTypeIsotopic},
		{MassCorrectionTag: "MethylTh", Symbol: "/", ModMass: 45.987721, TargetResidues: "C", Type: ModTypeDynamic},
		{MassCorrectionTag: "Sulfo", Symbol: "\\", ModMass: 79.956815, TargetResidues: "STY", Type: ModTypeDynamic},
	}

	for _, def := range common {
		mr.Add(def)
	}

	return mr
}
