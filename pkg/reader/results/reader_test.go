package results

import (
	"math"
	"strings"
	"testing"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
)

const sampleHeader = "Result_ID\tDataset\tPeptide\tProtein\tMonoisotopic_Mass\tMSGF_SpecProb\tMod_Description\n"

func collect(t *testing.T, r *Reader) []*core.SearchResult {
	t.Helper()
	var out []*core.SearchResult
	for r.Next() {
		out = append(out, r.Result())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("reader error: %v", err)
	}
	return out
}

func TestReaderWithHeader(t *testing.T) {
	input := sampleHeader +
		"1\tLiverA\tK.ACDEFGHIK.L\tP12345\t978.4567890\t1.3E-19\t\n" +
		"2\tLiverA\tR.MNPQR.S\tREV_P67890\t615.3117000\t2.5E-10\t\n"

	r := NewReader(strings.NewReader(input), nil)
	results := collect(t, r)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if r.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0 (header is not a skip)", r.Skipped)
	}

	first := results[0]
	if first.ResultID != 1 || first.Dataset != "LiverA" || first.Protein != "P12345" {
		t.Errorf("unexpected first result: %+v", first)
	}
	if first.PrefixResidue != "K" || first.CleanSequence != "ACDEFGHIK" || first.SuffixResidue != "L" {
		t.Errorf("peptide context = %q.%q.%q, want K.ACDEFGHIK.L",
			first.PrefixResidue, first.CleanSequence, first.SuffixResidue)
	}
	if first.MonoisotopicMass != 978.4567890 {
		t.Errorf("MonoisotopicMass = %v, want 978.4567890", first.MonoisotopicMass)
	}
	if first.SpecProb != 1.3e-19 {
		t.Errorf("SpecProb = %v, want 1.3e-19", first.SpecProb)
	}
	if first.IsReverse {
		t.Error("forward protein flagged as reverse")
	}

	if !results[1].IsReverse {
		t.Error("REV_ protein not flagged as reverse")
	}
}

func TestReaderWithoutHeader(t *testing.T) {
	input := "1\tLiverA\tK.ACDEFGHIK.L\tP12345\t978.4567890\t1.3E-19\t\n"

	r := NewReader(strings.NewReader(input), nil)
	results := collect(t, r)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].ResultID != 1 {
		t.Errorf("ResultID = %d, want 1", results[0].ResultID)
	}
}

func TestReaderSkipsMalformedLines(t *testing.T) {
	input := sampleHeader +
		"1\tLiverA\tK.ACDEFGHIK.L\tP12345\t978.4567890\t1.3E-19\t\n" +
		"not-a-number\tLiverA\tK.MNPQR.S\tP1\t1.0\t1.0\t\n" +
		"too\tshort\n" +
		"\n" +
		"2\tLiverA\tR.MNPQRK.S\tP67890\t743.4067000\t2.5E-10\t\n"

	r := NewReader(strings.NewReader(input), nil)
	results := collect(t, r)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// blank lines are not malformed
	if r.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", r.Skipped)
	}
}

func TestReaderParsesModDescription(t *testing.T) {
	input := "1\tLiverA\tK.ACDEFGHIK.L\tP12345\t978.4567890\t1.3E-19\tPlus1Oxy:7,IodoAcet:2\n"

	r := NewReader(strings.NewReader(input), nil)
	results := collect(t, r)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	mods := results[0].Modifications
	if len(mods) != 2 {
		t.Fatalf("got %d modifications, want 2", len(mods))
	}

	// sorted by position regardless of input order
	if mods[0].MassCorrectionTag != "IodoAcet" || mods[0].ResidueLocInPeptide != 2 {
		t.Errorf("mods[0] = %+v, want IodoAcet at 2", mods[0])
	}
	if mods[0].Residue != 'C' {
		t.Errorf("mods[0].Residue = %q, want 'C'", mods[0].Residue)
	}
	if math.Abs(mods[0].ModMass-57.021464) > 1e-9 {
		t.Errorf("mods[0].ModMass = %v, want 57.021464", mods[0].ModMass)
	}

	if mods[1].MassCorrectionTag != "Plus1Oxy" || mods[1].Residue != 'H' {
		t.Errorf("mods[1] = %+v, want Plus1Oxy on H", mods[1])
	}
}

func TestReaderModEdgeCases(t *testing.T) {
	// out-of-range position gets the terminus marker; malformed entries drop
	input := "1\tLiverA\tK.ACDEF.L\tP12345\t100.0\t1.0E-5\tPlus1Oxy:0,broken,NoColonHere,Acetyl:abc,IodoAcet:2\n"

	r := NewReader(strings.NewReader(input), nil)
	results := collect(t, r)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	mods := results[0].Modifications
	if len(mods) != 2 {
		t.Fatalf("got %d modifications, want 2 (malformed entries dropped)", len(mods))
	}
	if mods[0].ResidueLocInPeptide != 0 || mods[0].Residue != '-' {
		t.Errorf("mods[0] = %+v, want position 0 with '-' residue", mods[0])
	}
	if mods[1].MassCorrectionTag != "IodoAcet" {
		t.Errorf("mods[1] = %+v, want IodoAcet", mods[1])
	}
}

func TestReaderMassFallback(t *testing.T) {
	// a zero mass column is recomputed from the clean sequence
	input := "1\tLiverA\tK.PEPTIDE.L\tP12345\t0\t1.0E-5\t\n"

	r := NewReader(strings.NewReader(input), nil)
	results := collect(t, r)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	want := core.ComputeMonoisotopicMass("PEPTIDE", nil)
	if math.Abs(results[0].MonoisotopicMass-want) > 1e-9 {
		t.Errorf("MonoisotopicMass = %v, want %v", results[0].MonoisotopicMass, want)
	}
	if math.Abs(want-799.3599640) > 1e-6 {
		t.Errorf("ComputeMonoisotopicMass(PEPTIDE) = %v, want 799.3599640", want)
	}
}

func TestReaderCustomRegistry(t *testing.T) {
	mods := core.NewModificationRegistry()
	mods.Add(core.ModificationDefinition{
		MassCorrectionTag: "Custom",
		ModMass:           42.010565,
		Type:              core.ModTypeDynamic,
	})

	input := "1\tLiverA\tK.ACDEF.L\tP12345\t100.0\t1.0E-5\tCustom:1\n"

	r := NewReader(strings.NewReader(input), mods)
	results := collect(t, r)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	got := results[0].Modifications
	if len(got) != 1 || math.Abs(got[0].ModMass-42.010565) > 1e-9 {
		t.Errorf("modifications = %+v, want Custom mass 42.010565", got)
	}
}
