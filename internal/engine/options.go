package engine

import (
	"io"
	"log/slog"
)

// Options carries the collaborators of a pipeline run.
type Options struct {
	// Logger receives debug progress. Nil discards.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
