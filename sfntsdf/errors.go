package sfntsdf

import "fmt"

// LoadError wraps a font parse failure from golang.org/x/image/font/sfnt.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("sfntsdf: failed to parse font: %v", e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }
