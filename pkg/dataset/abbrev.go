// Package dataset derives short unambiguous base names when results from
// multiple datasets are combined into one output run.
package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/textutil"
)

// Default length bounds for abbreviated names.
const (
	DefaultMinLength = 12
	DefaultMaxLength = 25
)

// Result holds the abbreviation outcome for one multi-dataset run.
type Result struct {
	// Names maps each full dataset name to its abbreviated base name.
	// Immutable after construction.
	Names map[string]string

	// BaseName is the cleaned prefix shared by all abbreviated names, used
	// as the combined-run base name. Empty when the names share no prefix.
	BaseName string
}

// AbbreviateNames shortens a set of distinct dataset names to the fewest
// leading tokens that keep them pairwise distinct. Token boundaries are the
// underscore and hyphen delimiters, each kept as the start of the token it
// precedes. When no token count up to the longest name disambiguates, every
// dataset falls back to its full name. A single dataset is returned
// unabbreviated. minLength and maxLength bound the final names on the
// disambiguated path; non-positive values select the defaults.
func AbbreviateNames(names []string, minLength, maxLength int) (Result, error) {
	if len(names) == 0 {
		return Result{}, fmt.Errorf("no dataset names provided")
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return Result{}, fmt.Errorf("duplicate dataset name %q", name)
		}
		seen[name] = struct{}{}
	}

	if len(names) == 1 {
		return Result{
			Names:    map[string]string{names[0]: names[0]},
			BaseName: names[0],
		}, nil
	}

	tokenized := make([][]string, len(names))
	maxPartCount := 0
	for i, name := range names {
		tokenized[i] = tokenize(name)
		if len(tokenized[i]) > maxPartCount {
			maxPartCount = len(tokenized[i])
		}
	}

	partCountToUse := 0
	for n := 1; n <= maxPartCount; n++ {
		if allDistinct(tokenized, n) {
			partCountToUse = n
			break
		}
	}

	out := make(map[string]string, len(names))
	abbreviated := make([]string, 0, len(names))

	if partCountToUse == 0 {
		// inputs are distinct, so full names cannot collide
		for _, name := range names {
			out[name] = name
			abbreviated = append(abbreviated, name)
		}
	} else {
		for i, name := range names {
			abbrev := buildName(tokenized[i], partCountToUse, minLength, maxLength)
			out[name] = abbrev
			abbreviated = append(abbreviated, abbrev)
		}
	}

	return Result{
		Names:    out,
		BaseName: cleanBaseName(abbreviated),
	}, nil
}

// SortedFullNames returns the full dataset names of a result in ordinal
// order, for deterministic reporting.
func (r Result) SortedFullNames() []string {
	names := make([]string, 0, len(r.Names))
	for name := range r.Names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// tokenize splits a name at every underscore or hyphen boundary, keeping
// each delimiter as the first character of the token that follows it.
func tokenize(name string) []string {
	var tokens []string
	start := 0
	for i := 1; i < len(name); i++ {
		if name[i] == '_' || name[i] == '-' {
			tokens = append(tokens, name[start:i])
			start = i
		}
	}
	tokens = append(tokens, name[start:])
	return tokens
}

// allDistinct reports whether the first n tokens of every name concatenate to
// pairwise distinct candidates, aborting on the first in-set collision.
func allDistinct(tokenized [][]string, n int) bool {
	candidates := make(map[string]struct{}, len(tokenized))
	for _, tokens := range tokenized {
		candidate := concat(tokens, n)
		if _, collision := candidates[candidate]; collision {
			return false
		}
		candidates[candidate] = struct{}{}
	}
	return true
}

func concat(tokens []string, n int) string {
	if n > len(tokens) {
		n = len(tokens)
	}
	return strings.Join(tokens[:n], "")
}

// buildName re-derives a name with the accepted token count, then keeps
// adding tokens while the name is below minLength, stopping before any token
// that would push it past maxLength.
func buildName(tokens []string, partCountToUse, minLength, maxLength int) string {
	name := concat(tokens, partCountToUse)
	for i := partCountToUse; i < len(tokens); i++ {
		if len(name) >= minLength {
			break
		}
		if len(name)+len(tokens[i]) > maxLength {
			break
		}
		name += tokens[i]
	}
	return name
}

// cleanBaseName derives the combined-run base name from the abbreviated
// names: their case-insensitive common prefix, with trailing delimiters
// removed and a trailing fraction or replicate suffix ("_0", "_f") stripped
// when the prefix is long enough to keep it unambiguous.
func cleanBaseName(abbreviated []string) string {
	base := textutil.LongestCommonPrefix(abbreviated, false)
	base = strings.TrimRight(base, "_-")
	if len(base) > 7 && (strings.HasSuffix(base, "_0") || strings.HasSuffix(base, "_f")) {
		base = base[:len(base)-2]
	}
	return base
}
