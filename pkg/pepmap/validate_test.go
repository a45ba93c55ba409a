package pepmap

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
)

// mappingFile builds a sorted mapping file with total distinct peptides, of
// which noMatch have only the no-match sentinel as protein.
func mappingFile(t *testing.T, total, noMatch int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Peptide\tProtein\tResidue_Start\tResidue_End\n")
	for i := 0; i < total; i++ {
		protein := fmt.Sprintf("P%05d", i)
		if i < noMatch {
			protein = core.NoMatchSentinel
		}
		fmt.Fprintf(&b, "PEP%05dK\t%s\t1\t9\n", i, protein)
	}
	return writeTempFile(t, "map.txt", b.String())
}

func TestValidateErrorRateBoundary(t *testing.T) {
	opts := ValidateOptions{MaxErrorPercent: 0.1}

	// exactly 0.1% is rejected (strict <)
	path := mappingFile(t, 1000, 1)
	if _, err := Validate(path, opts); !errors.Is(err, core.ErrMappingErrorRate) {
		t.Errorf("1/1000 peptides: err = %v, want ErrMappingErrorRate", err)
	}

	// just under the threshold is accepted
	path = mappingFile(t, 1001, 1)
	res, err := Validate(path, opts)
	if err != nil {
		t.Errorf("1/1001 peptides: unexpected err %v", err)
	}
	if res.TotalPeptides != 1001 || res.NoMatchPeptides != 1 {
		t.Errorf("counts = %d/%d, want 1/1001", res.NoMatchPeptides, res.TotalPeptides)
	}
}

func TestValidateIgnoreErrors(t *testing.T) {
	path := mappingFile(t, 10, 5)

	if _, err := Validate(path, ValidateOptions{MaxErrorPercent: 0.1}); err == nil {
		t.Fatal("50% error rate should be rejected without the ignore flag")
	}

	res, err := Validate(path, ValidateOptions{MaxErrorPercent: 0.1, IgnoreErrors: true})
	if err != nil {
		t.Fatalf("ignore flag should accept: %v", err)
	}
	if res.ErrorPercent != 50 {
		t.Errorf("ErrorPercent = %v, want 50", res.ErrorPercent)
	}
}

func TestValidateWarning(t *testing.T) {
	path := mappingFile(t, 100, 1)

	// accepted (1% < 50%) but above the warn threshold: not silent
	res, err := Validate(path, ValidateOptions{MaxErrorPercent: 50, WarnPercent: 0.5})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if res.Warning == "" {
		t.Error("expected a warning when the error rate reaches the warn threshold")
	}

	// below the warn threshold: silent
	res, err = Validate(path, ValidateOptions{MaxErrorPercent: 50, WarnPercent: 10})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if res.Warning != "" {
		t.Errorf("unexpected warning %q", res.Warning)
	}
}

func TestValidateEmptyFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"completely empty", ""},
		{"header only", "Peptide\tProtein\tResidue_Start\tResidue_End\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "map.txt", tt.content)

			// the ignore flag never rescues an empty file
			if _, err := Validate(path, ValidateOptions{IgnoreErrors: true}); !errors.Is(err, core.ErrMappingFileEmpty) {
				t.Errorf("err = %v, want ErrMappingFileEmpty", err)
			}
		})
	}
}

func TestValidateCountsDistinctPeptides(t *testing.T) {
	// three rows, two distinct peptides; multi-protein peptides count once
	path := writeTempFile(t, "map.txt",
		"ACDEFGK\tP12345\t10\t16\n"+
			"ACDEFGK\tQ99999\t4\t10\n"+
			"MNPQRK\t"+core.NoMatchSentinel+"\t0\t0\n")

	res, err := Validate(path, ValidateOptions{MaxErrorPercent: 99, IgnoreErrors: true})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if res.TotalPeptides != 2 {
		t.Errorf("TotalPeptides = %d, want 2", res.TotalPeptides)
	}
	if res.NoMatchPeptides != 1 {
		t.Errorf("NoMatchPeptides = %d, want 1", res.NoMatchPeptides)
	}
}

func TestValidateDefaultPolicy(t *testing.T) {
	// exactly at the fixed 0.1% threshold: rejected
	path := mappingFile(t, 1000, 1)
	if err := ValidateDefault(path); !errors.Is(err, core.ErrMappingErrorRate) {
		t.Errorf("err = %v, want ErrMappingErrorRate", err)
	}

	// clean file: accepted
	path = mappingFile(t, 1000, 0)
	if err := ValidateDefault(path); err != nil {
		t.Errorf("unexpected err %v", err)
	}

	// empty file: rejected
	path = writeTempFile(t, "map.txt", "")
	if err := ValidateDefault(path); !errors.Is(err, core.ErrMappingFileEmpty) {
		t.Errorf("err = %v, want ErrMappingFileEmpty", err)
	}
}
