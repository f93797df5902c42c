package cli

import (
	"errors"
	"io/fs"

	"github.com/dagewa/wedged-lamellae/internal/engine"
	"github.com/dagewa/wedged-lamellae/internal/model"
	"github.com/dagewa/wedged-lamellae/internal/source"
)

// classify maps err to the ExitError reported to the user.
func classify(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ErrCode == "" {
			exitErr.ErrCode = ErrCodeGeneric
		}
		return exitErr
	}

	e := &ExitError{Code: ExitFailure, ErrCode: ErrCodeGeneric, Message: "command failed", Err: err}
	var fe *source.FormatError
	switch {
	case engine.IsAnalysisError(err):
		e.ErrCode = string(model.CodeOf(err))
		e.Message = "analysis failed"
		if stage := engine.StageOf(err); stage != "" {
			e.Message = stage + " failed"
		}
	case errors.Is(err, fs.ErrNotExist):
		e.Code = ExitCommandError
		e.ErrCode = ErrCodeNotFound
		e.Message = "input not found"
	case errors.As(err, &fe):
		e.ErrCode = ErrCodeLoadFailed
		e.Message = "malformed input"
	}
	return e
}

// errorDetails collects the structured context of err: the details of a
// model error plus the run title and stage of a pipeline failure.
func errorDetails(err error) any {
	details := map[string]string{}
	var me *model.Error
	if errors.As(err, &me) {
		for k, v := range me.Details {
			details[k] = v
		}
	}
	var se *engine.StageError
	if errors.As(err, &se) {
		details["stage"] = se.Stage
		if se.Title != "" {
			details["title"] = se.Title
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// fail prints err through f and returns the ExitError for main.
func fail(f *OutputFormatter, err error) error {
	exitErr := classify(err)
	_ = f.Error(exitErr.ErrCode, exitErr.Error(), errorDetails(err))
	exitErr.reported = true
	return exitErr
}
