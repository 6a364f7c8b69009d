package reconstruct

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by ReconstructionError.
var (
	ErrNoForms             = errors.New("reconstruct: no usable form")
	ErrEmptyReconstruction = errors.New("reconstruct: every column was skipped")
	ErrMismatchedInput     = errors.New("reconstruct: input lengths differ")
)

// ReconstructionError reports a reconstruction that could not produce a
// form.
type ReconstructionError struct {
	Reason string
	Forms  []string
	Err    error
}

func (e *ReconstructionError) Error() string {
	var b strings.Builder
	b.WriteString("reconstruction failed")
	if len(e.Forms) > 0 {
		fmt.Fprintf(&b, " for {%s}", strings.Join(e.Forms, ", "))
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ReconstructionError) Unwrap() error { return e.Err }
