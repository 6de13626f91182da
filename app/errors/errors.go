package errors

import (
	"errors"
	"log/slog"
	"sort"
)

// fielder is implemented by errors that carry their own structured fields,
// such as policy errors.
type fielder interface {
	Fields() []any
}

// Log logs an error using the default slog logger, extracting metadata if it's
// a StructuredError, and fields of any error in its chain that provides them.
func Log(err error) {
	var serr *StructuredError
	if !errors.As(err, &serr) {
		slog.Error(err.Error(), fieldsOf(err)...)
		return
	}

	args := make([]any, 0, len(serr.metadata)*2+2)

	cause := serr.metadata["cause"]
	if serr.cause != nil {
		cause = serr.cause
	}
	if cause != nil {
		args = append(args, "cause", cause)
	}

	keys := make([]string, 0, len(serr.metadata))
	for k := range serr.metadata {
		if k != "cause" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, k, serr.metadata[k])
	}
	if serr.cause != nil {
		args = append(args, fieldsOf(serr.cause)...)
	}

	slog.Error(serr.Error(), args...)
}

func fieldsOf(err error) []any {
	var f fielder
	if errors.As(err, &f) {
		return f.Fields()
	}
	return nil
}
