// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Flags for the process command
	mapFile         string
	outputDir       string
	baseName        string
	modDefsFile     string
	maxErrorPercent float64
	warnPercent     float64
	ignoreMapErrors bool
	skipProteinMods bool
	computeFDR      bool
	minNameLength   int
	maxNameLength   int

	// Flags for the validatemap command
	vmMaxErrorPercent float64
	vmWarnPercent     float64
	vmIgnoreErrors    bool
	vmDefaultPolicy   bool
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render
)

var rootCmd = &cobra.Command{
	Use:   "pepnorm",
	Short: "pepnorm - Peptide hit result normalization tool",
	Long: `pepnorm converts normalized peptide identification results from
mass-spectrometry search engines into a common, de-duplicated, tab-delimited
representation usable by downstream proteomics tools.

Each run assigns stable unique sequence IDs, resolves peptides to protein
positions via a peptide-to-protein mapping file, emits residue-level
modification rows, and computes FDR-derived confidence statistics.`,
	Version: "1.0.0",
}

// Execute runs the CLI with cooperative SIGINT/SIGTERM cancellation; the
// processing loop checks the context between records and stops cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(validateMapCmd)
	rootCmd.AddCommand(abbrevCmd)

	// Process command flags
	processCmd.Flags().StringVarP(&mapFile, "map", "m", "", "Peptide to protein mapping file (required)")
	processCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
	processCmd.Flags().StringVarP(&baseName, "base", "b", "", "Base name for output files (default: derived from input, abbreviated for multi-dataset runs)")
	processCmd.Flags().StringVar(&modDefsFile, "mods", "", "Tab-delimited modification definition file")
	processCmd.Flags().Float64Var(&maxErrorPercent, "max-error", 0.1, "Maximum allowable peptide match error percentage")
	processCmd.Flags().Float64Var(&warnPercent, "warn-error", 0.05, "Warn when the match error percentage reaches this value")
	processCmd.Flags().BoolVar(&ignoreMapErrors, "ignore-map-errors", false, "Process even when the mapping error rate exceeds the threshold")
	processCmd.Flags().BoolVar(&skipProteinMods, "skip-protein-mods", false, "Do not write the ProteinMods file")
	processCmd.Flags().BoolVar(&computeFDR, "fdr", true, "Compute FDR and Q-values when ranking scores are present")
	processCmd.Flags().IntVar(&minNameLength, "min-name-length", 0, "Minimum abbreviated dataset name length (0 = default)")
	processCmd.Flags().IntVar(&maxNameLength, "max-name-length", 0, "Maximum abbreviated dataset name length (0 = default)")

	processCmd.MarkFlagRequired("map")

	// Validatemap command flags
	validateMapCmd.Flags().Float64Var(&vmMaxErrorPercent, "max-error", 0.1, "Maximum allowable peptide match error percentage")
	validateMapCmd.Flags().Float64Var(&vmWarnPercent, "warn-error", 0.05, "Warn when the match error percentage reaches this value")
	validateMapCmd.Flags().BoolVar(&vmIgnoreErrors, "ignore-errors", false, "Accept the file regardless of its error rate")
	validateMapCmd.Flags().BoolVar(&vmDefaultPolicy, "default-policy", false, "Use the fixed 0.1% threshold with no warning path")

	// Abbrev command flags
	abbrevCmd.Flags().IntVar(&minNameLength, "min-length", 0, "Minimum abbreviated name length (0 = default)")
	abbrevCmd.Flags().IntVar(&maxNameLength, "max-length", 0, "Maximum abbreviated name length (0 = default)")
}
