package descriptor

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrMalformedDescriptor is matched by every error that means the descriptor
// text is not valid in the supported grammar.
var ErrMalformedDescriptor = errors.New("malformed descriptor")

// SyntaxError reports descriptor text that could not be parsed, or a rule
// call whose arguments fall outside the supported grammar.
type SyntaxError struct {
	File   string
	Line   int // 0 when unknown
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	name := filepath.Base(e.File)
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d:%d: %s", name, e.Line, e.Column, e.Msg)
	}
	return "parse " + name + ": " + e.Msg
}

// Is makes errors.Is(err, ErrMalformedDescriptor) true for any SyntaxError.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedDescriptor
}
