package pipeline

import (
	"fmt"

	"github.com/ironsheep/rawconv/internal/exposure"
)

// Outcome classifies how a single file was handled.
type Outcome int

const (
	// Converted means the output was written and the source deleted.
	Converted Outcome = iota
	// OutputMissing means encoding reported success but no output was
	// found, so the source was kept.
	OutputMissing
	// Failed means a stage returned an error; the source was kept.
	Failed
)

// String returns the lowercase outcome label used in logs.
func (o Outcome) String() string {
	switch o {
	case Converted:
		return "converted"
	case OutputMissing:
		return "output-missing"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Stage names the step of the per-file pipeline an error came from.
type Stage string

const (
	// StageDecode covers reading and demosaicing the RAW file.
	StageDecode Stage = "decode"
	// StageExposure covers classification and brightness adjustment.
	StageExposure Stage = "exposure"
	// StageEncode covers writing the output image.
	StageEncode Stage = "encode"
	// StageVerify covers checking the output on disk.
	StageVerify Stage = "verify"
	// StageDelete covers removing the source RAW file.
	StageDelete Stage = "delete"
)

// FileError is the error recorded for a failed file.
type FileError struct {
	Stage Stage
	Path  string
	Err   error
}

// Error formats the stage, source path and cause.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

// Unwrap returns the underlying stage error for errors.Is and errors.As.
func (e *FileError) Unwrap() error {
	return e.Err
}

// FileResult describes the handling of one RAW file.
type FileResult struct {
	Source      string
	Output      string
	Outcome     Outcome
	Exposure    exposure.Result
	OutputBytes int64
	// Err is a *FileError when Outcome is Failed, nil otherwise.
	Err error
}
