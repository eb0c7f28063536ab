package pipeline

import "fmt"

// ValidationError is malformed command input, caught before any network
// call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid input: " + e.Reason }

// ItemFailuresError reports how many independent items failed in a command
// that continues past per-item errors. The failures themselves were already
// logged as they happened.
type ItemFailuresError struct {
	Failed int
	Total  int
}

func (e *ItemFailuresError) Error() string {
	return fmt.Sprintf("%d of %d item(s) failed", e.Failed, e.Total)
}

// FilesystemError is a failed path check, directory creation, or file
// read/write/parse.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem: %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
