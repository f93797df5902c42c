package source

import "fmt"

// FormatError reports malformed input at a position in a file.
type FormatError struct {
	Path    string
	Line    int // 0 if unknown
	Message string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func formatErrorf(path string, line int, format string, args ...any) *FormatError {
	return &FormatError{Path: path, Line: line, Message: fmt.Sprintf(format, args...)}
}
