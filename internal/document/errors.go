package document

import (
	"fmt"
)

// IOError reports a file that is missing, unreadable or unwritable.
type IOError struct {
	// Op is the failed operation: "read" or "write".
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports content that is not a valid document of the expected
// format.
type ParseError struct {
	// Path is empty when decoding from a reader.
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsing %s: %v", e.Format, e.Err)
	}

	return fmt.Sprintf("parsing %s %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
