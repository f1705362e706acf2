package core

import "errors"

// Sentinel errors returned by the editor. Their messages contain the
// patterns MapError looks for, so wrapped errors map to the same codes.
var (
	ErrInvalidCSV        = errors.New("invalid csv")
	ErrInvalidJSON       = errors.New("invalid json")
	ErrInvalidYAML       = errors.New("invalid yaml")
	ErrEmptyFile         = errors.New("empty file: no data rows")
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNoFile            = errors.New("no file provided")
	ErrImportInProgress  = errors.New("import already in progress")
	ErrSessionNotFound   = errors.New("session not found")
	ErrTooManySessions   = errors.New("too many open sessions")
	ErrRowNotFound       = errors.New("row not found")
	ErrNotLoaded         = errors.New("no dataset loaded")

	ErrSubmitNotImplemented = errors.New("submit not implemented")
)
