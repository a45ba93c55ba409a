package pepmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadWithHeader(t *testing.T) {
	path := writeTempFile(t, "map.txt",
		"Peptide\tProtein\tResidue_Start\tResidue_End\n"+
			"ACDEFGK\tP12345\t10\t16\n"+
			"MNPQRK\tQ99999\t5\t10\n")

	list, stats, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !stats.HeaderDetected {
		t.Error("header should be auto-detected")
	}
	if stats.Rows != 2 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want 2 rows, 0 skipped", stats)
	}

	want := List{
		{Peptide: "ACDEFGK", Protein: "P12345", ResidueStart: 10, ResidueEnd: 16},
		{Peptide: "MNPQRK", Protein: "Q99999", ResidueStart: 5, ResidueEnd: 10},
	}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithoutHeader(t *testing.T) {
	path := writeTempFile(t, "map.txt",
		"ACDEFGK\tP12345\t10\t16\n")

	list, stats, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stats.HeaderDetected {
		t.Error("no header should be detected when column 3 parses as an integer")
	}
	if len(list) != 1 {
		t.Fatalf("loaded %d rows, want 1", len(list))
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	path := writeTempFile(t, "map.txt",
		"ACDEFGK\tP12345\t10\t16\n"+
			"short\trow\n"+
			"MNPQRK\tQ99999\tnot-an-int\t10\n"+
			"WYVAK\tR00001\t3\t7\n")

	list, stats, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stats.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", stats.Skipped)
	}
	if len(list) != 2 {
		t.Errorf("loaded %d rows, want 2", len(list))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
