package core

import "strings"

// NoMatchSentinel is the reserved protein-name token the mapping engine
// writes when a peptide has no match in the FASTA file.
const NoMatchSentinel = "__NoMatch__"

// ProteinClass is the closed classification of a protein name.
type ProteinClass int

const (
	ClassNormal ProteinClass = iota
	ClassNoMatch
	ClassDecoy
)

func (c ProteinClass) String() string {
	switch c {
	case ClassNoMatch:
		return "no-match"
	case ClassDecoy:
		return "decoy"
	default:
		return "normal"
	}
}

// Naming conventions used by the supported search tools to mark decoy,
// reversed, or scrambled proteins.
var decoyPrefixes = []string{
	"reversed_",  // MaxQuant
	"REV_",       // SEQUEST / MSGF+
	"rev_",       // MSFragger
	"scrambled_", // X!Tandem
	"decoy_",
	"DECOY_",
	"XXX_", // MSGF+ default
	"xxx.",
}

const decoySuffix = ":reversed" // X!Tandem appended form

// Classify computes the classification of a protein name. Callers should
// classify each distinct name once and reuse the result rather than
// re-running the string comparisons at every use site.
func Classify(proteinName string) ProteinClass {
	if proteinName == NoMatchSentinel {
		return ClassNoMatch
	}
	for _, p := range decoyPrefixes {
		if strings.HasPrefix(proteinName, p) {
			return ClassDecoy
		}
	}
	if strings.HasSuffix(proteinName, decoySuffix) {
		return ClassDecoy
	}
	return ClassNormal
}

// IsReversedProtein reports whether the protein name uses any of the decoy
// naming conventions.
func IsReversedProtein(proteinName string) bool {
	return Classify(proteinName) == ClassDecoy
}
