package core

import "errors"

// Run-level error taxonomy. Local recoverable conditions are counted
// warnings; these sentinels mark conditions that stop a run. Wrap them with
// fmt.Errorf("...: %w", ...) and test with errors.Is.
var (
	ErrInvalidInputPath  = errors.New("invalid input path")
	ErrInvalidOutputPath = errors.New("invalid output path")
	ErrMappingFileEmpty  = errors.New("peptide to protein mapping file is empty")
	ErrMappingErrorRate  = errors.New("peptide match error rate exceeds the threshold")
	ErrOutputCreation    = errors.New("unable to create output file")
	ErrParameterFile     = errors.New("invalid parameter file")
)
