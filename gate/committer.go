package gate

import (
	"context"
	"io"
	"sync"

	signupform "github.com/reoring/signupform"
)

// JSONCommitter writes each accepted record as JSON indented with four
// spaces.
type JSONCommitter struct {
	mu     sync.Mutex
	w      io.Writer
	indent string
	full   bool
}

// JSONOption configures a JSONCommitter.
type JSONOption func(*JSONCommitter)

// WithIndent overrides the four-space indent; "" writes compact JSON.
func WithIndent(indent string) JSONOption {
	return func(c *JSONCommitter) { c.indent = indent }
}

// WithEnvelope writes the whole Submission (id, timestamp, record) instead
// of the bare record.
func WithEnvelope() JSONOption {
	return func(c *JSONCommitter) { c.full = true }
}

// NewJSONCommitter returns a committer writing to w.
func NewJSONCommitter(w io.Writer, opts ...JSONOption) *JSONCommitter {
	c := &JSONCommitter{w: w, indent: "    "}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *JSONCommitter) Commit(ctx context.Context, s signupform.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return signupform.EncodeSubmission(c.w, s, c.indent)
	}
	return signupform.EncodeRecord(c.w, s.Record, c.indent)
}
