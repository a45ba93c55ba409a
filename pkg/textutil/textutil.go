// Package textutil provides string and numeric helpers shared by the
// normalization engine: tolerant numeric parsing, longest-common-prefix
// computation, and residue letter classification.
package textutil

import (
	"math"
	"strconv"
	"strings"
)

// ParseFloat parses s as a float64, returning def when s is empty or not a
// valid number. Upstream result files routinely carry blank score columns,
// so parse failures are not errors here.
func ParseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// ParseInt parses s as an int, returning def on empty or malformed input.
func ParseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// IsLetter reports whether ch is an ASCII letter A-Z or a-z.
func IsLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

// LongestCommonPrefix returns the longest literal prefix shared by all names.
// With caseSensitive false the comparison ignores case but the returned
// prefix keeps the casing of the first name. An empty or nil slice yields "".
func LongestCommonPrefix(names []string, caseSensitive bool) string {
	if len(names) == 0 {
		return ""
	}

	prefix := names[0]
	for _, name := range names[1:] {
		prefix = commonPrefix(prefix, name, caseSensitive)
		if prefix == "" {
			return ""
		}
	}
	return prefix
}

func commonPrefix(a, b string, caseSensitive bool) string {
	ca, cb := a, b
	if !caseSensitive {
		ca = strings.ToLower(a)
		cb = strings.ToLower(b)
	}

	n := len(ca)
	if len(cb) < n {
		n = len(cb)
	}

	i := 0
	for i < n && ca[i] == cb[i] {
		i++
	}
	return a[:i]
}

// minimum magnitude applied before significant-digit rounding; keeps tiny
// monoisotopic mass residuals from collapsing to zero-width output
const roundFloor = 1e-12

// RoundSignificant rounds val to the given number of decimal places, flooring
// magnitudes below roundFloor to zero first so that -0.0000000001 style noise
// prints as 0.
func RoundSignificant(val float64, decimals int) float64 {
	if math.Abs(val) < roundFloor {
		return 0
	}
	ratio := math.Pow(10, float64(decimals))
	return math.Round(val*ratio) / ratio
}
