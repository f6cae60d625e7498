// Package gate is the final commit step of the signup form. It checks the
// cross-field password confirmation rule and hands accepted records to a
// Committer.
package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	signupform "github.com/reoring/signupform"
	"github.com/reoring/signupform/i18n"
	"github.com/reoring/signupform/schema"
)

// Committer receives accepted submissions. Transport and storage live
// behind it.
type Committer interface {
	Commit(ctx context.Context, s signupform.Submission) error
}

// CommitterFunc adapts a function to Committer.
type CommitterFunc func(ctx context.Context, s signupform.Submission) error

func (f CommitterFunc) Commit(ctx context.Context, s signupform.Submission) error { return f(ctx, s) }

type discard struct{}

func (discard) Commit(context.Context, signupform.Submission) error { return nil }

// FieldValidator is the schema contract used by the optional safety net.
type FieldValidator interface {
	Validate(field signupform.FieldName, value string) signupform.Outcome
	Fields() []signupform.FieldName
}

// Option configures a Gate.
type Option func(*Gate)

// WithCommitter sets where accepted submissions go. The default drops them.
func WithCommitter(c Committer) Option {
	return func(g *Gate) {
		if c != nil {
			g.committer = c
		}
	}
}

// WithNoticeHandler sets the consumer of transient notices.
func WithNoticeHandler(h signupform.NoticeHandler) Option {
	return func(g *Gate) { g.notify = h }
}

// WithNoticeDuration overrides DefaultNoticeDuration.
func WithNoticeDuration(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.noticeDuration = d
		}
	}
}

// WithSchemaCheck makes Submit re-run every field rule before the
// confirmation check, for callers that do not validate the whole form
// beforehand.
func WithSchemaCheck(enabled bool) Option {
	return func(g *Gate) {
		g.schema = nil
		if enabled {
			g.schema = schema.Signup()
		}
	}
}

// WithSchema enables the safety net with a custom table.
func WithSchema(v FieldValidator) Option {
	return func(g *Gate) { g.schema = v }
}

// WithClock overrides time.Now for SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDGenerator overrides the random UUID used for Submission.ID.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(g *Gate) {
		if gen != nil {
			g.newID = gen
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// Gate checks a complete record and commits it.
type Gate struct {
	committer      Committer
	notify         signupform.NoticeHandler
	noticeDuration time.Duration
	schema         FieldValidator
	now            func() time.Time
	newID          func() (string, error)
	logger         *zap.SugaredLogger
}

// New returns a Gate. Without WithSchemaCheck it trusts the caller to have
// validated every field.
func New(opts ...Option) *Gate {
	g := &Gate{
		committer:      discard{},
		noticeDuration: signupform.DefaultNoticeDuration,
		now:            time.Now,
		newID:          newUUID,
		logger:         zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Submit accepts rec when password and confirmPassword are identical.
// A mismatch emits a destructive notice and returns ErrPasswordMismatch;
// no field state is involved. With the schema safety net enabled, field
// failures are returned as Issues first and no notice is emitted.
func (g *Gate) Submit(ctx context.Context, rec signupform.FormRecord) (signupform.Submission, error) {
	if g.schema != nil {
		if iss := g.validate(rec); len(iss) > 0 {
			g.logger.Debugf("Submission rejected: %s", iss.Error())
			return signupform.Submission{}, iss
		}
	}

	if rec.Password != rec.ConfirmPassword {
		g.logger.Debugf("Submission rejected: %s", signupform.ErrPasswordMismatch)
		g.emit(signupform.Notice{
			Code:     signupform.CodeMismatch,
			Title:    i18n.T(signupform.CodeMismatch, nil),
			Variant:  signupform.NoticeDestructive,
			Duration: g.noticeDuration,
		})
		return signupform.Submission{}, signupform.ErrPasswordMismatch
	}

	id, err := g.newID()
	if err != nil {
		return signupform.Submission{}, fmt.Errorf("generate submission id: %w", err)
	}
	sub := signupform.Submission{
		ID:          id,
		SubmittedAt: g.now().UTC(),
		Record:      rec,
	}
	if err := g.committer.Commit(ctx, sub); err != nil {
		return signupform.Submission{}, fmt.Errorf("commit submission: %w", err)
	}
	g.logger.Infof("Accepted submission %s", sub.ID)
	return sub, nil
}

func (g *Gate) validate(rec signupform.FormRecord) signupform.Issues {
	var iss signupform.Issues
	for _, f := range g.schema.Fields() {
		v, _ := rec.Get(f)
		iss = append(iss, g.schema.Validate(f, v).Issues...)
	}
	return iss
}

func (g *Gate) emit(n signupform.Notice) {
	if g.notify != nil {
		g.notify(n)
	}
}
