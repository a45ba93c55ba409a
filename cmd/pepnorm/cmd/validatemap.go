package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/pepmap"
)

var validateMapCmd = &cobra.Command{
	Use:   "validatemap [mapping file]",
	Short: "Validate a peptide-to-protein mapping file's error rate",
	Long: `Scan a sorted peptide-to-protein mapping file once and report the fraction
of distinct peptides that had no match in the FASTA file. The file is
accepted when the error percentage is strictly below the threshold.

Examples:
  pepnorm validatemap results_PepToProtMap.txt
  pepnorm validatemap results_PepToProtMap.txt --max-error 50 --warn-error 10`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateMap,
}

func runValidateMap(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", core.ErrInvalidInputPath, path)
	}

	if vmDefaultPolicy {
		if err := pepmap.ValidateDefault(path); err != nil {
			return err
		}
		fmt.Printf("Mapping file accepted (default policy): %s\n", path)
		return nil
	}

	res, err := pepmap.Validate(path, pepmap.ValidateOptions{
		IgnoreErrors:    vmIgnoreErrors,
		MaxErrorPercent: vmMaxErrorPercent,
		WarnPercent:     vmWarnPercent,
	})
	if err != nil {
		return err
	}
	if res.Warning != "" {
		fmt.Fprintf(os.Stderr, "%s\n", warnStyle("Warning: "+res.Warning))
	}

	fmt.Printf("Mapping file accepted: %s\n", path)
	fmt.Printf("Distinct peptides: %d\n", res.TotalPeptides)
	fmt.Printf("Unmatched peptides: %d (%.4f%%)\n", res.NoMatchPeptides, res.ErrorPercent)
	return nil
}
