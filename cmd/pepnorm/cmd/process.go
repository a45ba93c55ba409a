package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/dataset"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/fdr"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/pepmap"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/protmods"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/reader/results"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/unique"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/writer/tsv"
)

var processCmd = &cobra.Command{
	Use:   "process [results file]...",
	Short: "Normalize search results into the de-duplicated output streams",
	Long: `Process one or more normalized PSM result files against a peptide-to-protein
mapping file, writing the ResultToSeqMap, SeqInfo, ModDetails,
SeqToProteinMap, ProteinMods, and ModSummary streams.

Examples:
  # Single dataset
  pepnorm process results.tsv --map results_PepToProtMap.txt --out ./phrp

  # Combined run over several datasets, relaxed mapping threshold
  pepnorm process a.tsv b.tsv --map combined_PepToProtMap.txt --max-error 50`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	mods := core.DefaultModificationRegistry()
	if modDefsFile != "" {
		if err := loadModDefs(mods, modDefsFile); err != nil {
			return fmt.Errorf("%w: %v", core.ErrParameterFile, err)
		}
	}

	mapping, err := loadMapping()
	if err != nil {
		return err
	}

	// A failed run reports its error; remaining input files still process.
	failures := 0
	for _, resultsFile := range args {
		if err := processFile(cmd.Context(), resultsFile, mapping, mods); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errStyle(fmt.Sprintf("Error processing %s: %v", resultsFile, err)))
			failures++
		}
		mods.Reset()
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d input files failed", failures, len(args))
	}
	return nil
}

func loadMapping() (pepmap.List, error) {
	if _, err := os.Stat(mapFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: mapping file does not exist: %s", core.ErrInvalidInputPath, mapFile)
	}

	mapping, stats, err := pepmap.Load(mapFile)
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "%s\n", warnStyle(fmt.Sprintf("Warning: skipped %d malformed mapping rows", stats.Skipped)))
	}
	mapping.Sort()

	res, err := pepmap.Validate(mapFile, pepmap.ValidateOptions{
		IgnoreErrors:    ignoreMapErrors,
		MaxErrorPercent: maxErrorPercent,
		WarnPercent:     warnPercent,
	})
	if err != nil {
		return nil, err
	}
	if res.Warning != "" {
		fmt.Fprintf(os.Stderr, "%s\n", warnStyle("Warning: "+res.Warning))
	}

	fmt.Printf("Loaded %d mapping entries (%d distinct peptides, %.4f%% unmatched)\n",
		stats.Rows, res.TotalPeptides, res.ErrorPercent)

	return mapping, nil
}

func loadModDefs(mods *core.ModificationRegistry, path string) error {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return mods.LoadFromTSV(fh)
}

func processFile(ctx context.Context, resultsFile string, mapping pepmap.List, mods *core.ModificationRegistry) error {
	if _, err := os.Stat(resultsFile); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", core.ErrInvalidInputPath, resultsFile)
	}

	fmt.Printf("Processing %s...\n", resultsFile)

	list, skipped, err := readResults(ctx, resultsFile, mods)
	if err != nil {
		return err
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "%s\n", warnStyle(fmt.Sprintf("Warning: skipped %d malformed result lines", skipped)))
	}

	if computeFDR && hasRankingScores(list) {
		ranked := make([]*core.SearchResult, len(list))
		copy(ranked, list)
		// ascending spectral probability = descending confidence
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].SpecProb < ranked[j].SpecProb
		})
		fdr.Compute(ranked)
	}

	// The abbreviation resolver runs before any output file is opened.
	base := baseName
	if base == "" {
		base = defaultBaseName(resultsFile)
		if names := datasetNames(list); len(names) > 1 {
			abbrev, err := dataset.AbbreviateNames(names, minNameLength, maxNameLength)
			if err != nil {
				return err
			}
			if abbrev.BaseName != "" {
				base = abbrev.BaseName
			}
			fmt.Printf("Combined run over %d datasets, base name %q\n", len(names), base)
		}
	}

	out, err := tsv.NewOutputSet(outputDir, base)
	if err != nil {
		return err
	}
	defer out.Close()

	registry := unique.NewRegistry(out, mods)
	emitter := &protmods.Emitter{}
	if !skipProteinMods {
		emitter.Sink = out
	}

	counts, err := emitStreams(ctx, list, mapping, registry, emitter, out)
	if err != nil {
		return err
	}

	if err := out.WriteModSummary(mods.Summary()); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	for _, w := range out.Warnings {
		fmt.Fprintf(os.Stderr, "%s\n", warnStyle("Warning: "+w))
	}

	fmt.Printf("\nProcessing complete!\n")
	fmt.Printf("Results: %d (%d unique sequences)\n", len(list), registry.Count())
	if counts.unmatchedPeptides > 0 {
		fmt.Printf("Peptides without a protein match: %d\n", counts.unmatchedPeptides)
	}
	if emitter.SkippedReversed > 0 {
		fmt.Printf("Skipped due to reversed/scrambled protein: %d\n", emitter.SkippedReversed)
	}
	fmt.Printf("Output: %s\n", filepath.Join(outputDir, base+"_*.txt"))

	return nil
}

type emitCounts struct {
	unmatchedPeptides int
}

func emitStreams(ctx context.Context, list []*core.SearchResult, mapping pepmap.List,
	registry *unique.Registry, emitter *protmods.Emitter, out *tsv.OutputSet) (emitCounts, error) {

	var counts emitCounts

	for i, res := range list {
		if err := ctx.Err(); err != nil {
			return counts, fmt.Errorf("processing aborted: %w", err)
		}

		seqID, _, err := registry.ProcessResult(res)
		if err != nil {
			return counts, err
		}
		if err := out.WriteResultToSeqMap(res.ResultID, seqID); err != nil {
			return counts, err
		}

		idx := mapping.FindFirstMatch(res.CleanSequence)
		if idx < 0 {
			counts.unmatchedPeptides++

			// No mapping entry at all: fall back to pseudo protein
			// coordinates against the PSM's reported protein.
			pepStart, pepEnd, _, _ := protmods.PseudoProteinLocation(res)
			res.ProteinStart = pepStart
			res.ProteinEnd = pepEnd

			entry := pepmap.Entry{
				Peptide:      res.CleanSequence,
				Protein:      res.Protein,
				ResidueStart: pepStart,
				ResidueEnd:   pepEnd,
			}
			if !registry.CheckSeqToProteinMapDefined(seqID, entry.Protein) {
				err := out.WriteSeqToProteinMap(seqID, res.ComputeCleavageState(),
					res.ComputeTerminusState(), entry.Protein, res.Expectation, 0)
				if err != nil {
					return counts, err
				}
			}
			if err := emitter.EmitForMapping(res, seqID, entry); err != nil {
				return counts, err
			}
			continue
		}

		for ; idx < len(mapping) && mapping[idx].Peptide == res.CleanSequence; idx++ {
			entry := mapping[idx]

			if res.ProteinStart == 0 || entry.Protein == res.Protein {
				res.ProteinStart = entry.ResidueStart
				res.ProteinEnd = entry.ResidueEnd
			}

			if !registry.CheckSeqToProteinMapDefined(seqID, entry.Protein) {
				err := out.WriteSeqToProteinMap(seqID, res.ComputeCleavageState(),
					res.ComputeTerminusState(), entry.Protein, res.Expectation, 0)
				if err != nil {
					return counts, err
				}
			}

			if err := emitter.EmitForMapping(res, seqID, entry); err != nil {
				return counts, err
			}
		}

		if (i+1)%10000 == 0 {
			fmt.Printf("Processed %d results...\n", i+1)
		}
	}

	return counts, nil
}

func readResults(ctx context.Context, path string, mods *core.ModificationRegistry) ([]*core.SearchResult, int, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", core.ErrInvalidInputPath, err)
	}
	defer fh.Close()

	reader := results.NewReader(fh, mods)

	var list []*core.SearchResult
	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return nil, reader.Skipped, fmt.Errorf("read aborted: %w", err)
		}
		list = append(list, reader.Result())
	}
	if err := reader.Err(); err != nil {
		return nil, reader.Skipped, err
	}

	return list, reader.Skipped, nil
}

func hasRankingScores(list []*core.SearchResult) bool {
	for _, res := range list {
		if res.SpecProb > 0 {
			return true
		}
	}
	return false
}

func datasetNames(list []*core.SearchResult) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, res := range list {
		if res.Dataset == "" {
			continue
		}
		if _, ok := seen[res.Dataset]; ok {
			continue
		}
		seen[res.Dataset] = struct{}{}
		names = append(names, res.Dataset)
	}
	sort.Strings(names)
	return names
}

func defaultBaseName(resultsFile string) string {
	base := filepath.Base(resultsFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if strings.HasSuffix(base, ".tsv") || strings.HasSuffix(base, ".txt") {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}
