package textutil

import (
	"math"
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		def  float64
		want float64
	}{
		{"valid", "1.5", 0, 1.5},
		{"valid negative", "-2.25", 0, -2.25},
		{"scientific", "1.3E-19", 0, 1.3e-19},
		{"empty uses default", "", 42, 42},
		{"whitespace uses default", "   ", 7, 7},
		{"garbage uses default", "abc", -1, -1},
		{"trimmed", " 3.5 ", 0, 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFloat(tt.in, tt.def); got != tt.want {
				t.Errorf("ParseFloat(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		def  int
		want int
	}{
		{"valid", "15", 0, 15},
		{"negative", "-3", 0, -3},
		{"empty uses default", "", 9, 9},
		{"float is not int", "1.5", 2, 2},
		{"garbage uses default", "xyz", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseInt(tt.in, tt.def); got != tt.want {
				t.Errorf("ParseInt(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
			}
		})
	}
}

func TestIsLetter(t *testing.T) {
	for _, ch := range []byte{'A', 'Z', 'a', 'z', 'K'} {
		if !IsLetter(ch) {
			t.Errorf("IsLetter(%q) = false, want true", ch)
		}
	}
	for _, ch := range []byte{'-', '.', '1', '*', ' ', '@'} {
		if IsLetter(ch) {
			t.Errorf("IsLetter(%q) = true, want false", ch)
		}
	}
}

func TestLongestCommonPrefix(t *testing.T) {
	tests := []struct {
		name          string
		in            []string
		caseSensitive bool
		want          string
	}{
		{"empty input", nil, true, ""},
		{"single name", []string{"LiverA_Frac1"}, true, "LiverA_Frac1"},
		{"shared prefix", []string{"LiverA_Frac1", "LiverA_Frac2"}, true, "LiverA_Frac"},
		{"no shared prefix", []string{"Liver", "Kidney"}, true, ""},
		{"case sensitive differs", []string{"liverA", "LiverA"}, true, ""},
		{"case insensitive keeps first casing", []string{"LiverA", "liverB"}, false, "Liver"},
		{"one name is prefix of other", []string{"Liver", "LiverA"}, true, "Liver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestCommonPrefix(tt.in, tt.caseSensitive); got != tt.want {
				t.Errorf("LongestCommonPrefix(%v, %v) = %q, want %q", tt.in, tt.caseSensitive, got, tt.want)
			}
		})
	}
}

func TestRoundSignificant(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		decimals int
		want     float64
	}{
		{"round down", 1234.567891, 5, 1234.56789},
		{"round up", 2.0000051, 5, 2.00001},
		{"below floor collapses to zero", 1e-13, 5, 0},
		{"negative below floor", -1e-13, 5, 0},
		{"negative value", -1.234564, 5, -1.23456},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundSignificant(tt.val, tt.decimals)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RoundSignificant(%v, %d) = %v, want %v", tt.val, tt.decimals, got, tt.want)
			}
		})
	}
}
