// pepnorm - peptide hit result normalization tool
package main

import (
	"fmt"
	"os"

	"github.com/PNNL-Comp-Mass-Spec/pepnorm/cmd/pepnorm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
