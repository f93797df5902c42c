package engine

import (
	"errors"
	"fmt"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// StageError reports which pipeline stage failed for which run.
//
// The underlying error keeps its model.ErrorCode, so errors.Is against
// the model sentinels still matches through a StageError.
type StageError struct {
	// Title identifies the run.
	Title string

	// Stage names the failing step ("match", "summary", ...).
	Stage string

	Err error
}

func (e *StageError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the failing stage of err, or "" when err did not come
// from a pipeline.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// IsAnalysisError reports whether err is a data error (as opposed to an
// I/O or programming error).
func IsAnalysisError(err error) bool {
	return model.CodeOf(err) != ""
}

func stageErr(title, stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Title: title, Stage: stage, Err: err}
}
