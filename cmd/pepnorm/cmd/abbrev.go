package cmd

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/pkg/dataset"
)

var abbrevCmd = &cobra.Command{
	Use:   "abbrev [dataset name]...",
	Short: "Derive collision-free abbreviated base names for datasets",
	Long: `Compute the shortest unambiguous abbreviated base name for each dataset
name, as used when combining results from multiple datasets into one run.

Example:
  pepnorm abbrev LiverA_Frac1_f LiverA_Frac2_f LiverB_Frac1_f`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAbbrev,
}

func runAbbrev(cmd *cobra.Command, args []string) error {
	res, err := dataset.AbbreviateNames(args, minNameLength, maxNameLength)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(res.Names))
	for name := range res.Names {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		fmt.Printf("%s\t%s\n", name, res.Names[name])
	}
	if res.BaseName != "" && len(names) > 1 {
		fmt.Printf("\nCombined base name: %s\n", res.BaseName)
	}
	return nil
}
