package signupform

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeLength        = "length"
	CodePattern       = "pattern"
	CodeInvalidFormat = "invalid_format"
	// Cross-field
	CodeMismatch = "mismatch"
)

var (
	// ErrUnknownField is returned when an event names a field outside the
	// signup record.
	ErrUnknownField = errors.New("unknown field")
	// ErrPasswordMismatch is the cross-field submission failure. It never
	// appears on a FieldState.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrNotAtCredentials is returned by submit while the form is still on
	// the identity stage.
	ErrNotAtCredentials = errors.New("submit requires the credentials stage")
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer of the field, e.g. /phone.
	Code    string
	Message string
	// Key is the message catalogue key the Message was rendered from.
	Key string
	// Params carries rule parameters such as {"min": 2}.
	Params map[string]any
	// Rule optionally records the rule name that produced this issue.
	Rule string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// First returns the first issue, if any.
func (iss Issues) First() (Issue, bool) {
	if len(iss) == 0 {
		return Issue{}, false
	}
	return iss[0], true
}

// ByField groups issues by their path's field name.
func (iss Issues) ByField() map[FieldName]Issues {
	out := make(map[FieldName]Issues)
	for _, it := range iss {
		f := FieldName(strings.TrimPrefix(it.Path, "/"))
		out[f] = append(out[f], it)
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
