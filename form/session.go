// Package form binds the validation engine, stage controller and
// submission gate into one session driven by renderer events.
//
// A Session is owned by a single form instance. Events are processed
// synchronously in arrival order; it is not safe for concurrent use.
package form

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	signupform "github.com/reoring/signupform"
	"github.com/reoring/signupform/engine"
	"github.com/reoring/signupform/gate"
	"github.com/reoring/signupform/stage"
)

type config struct {
	defaults       signupform.FormRecord
	committer      gate.Committer
	handlers       []signupform.NoticeHandler
	noticeDuration time.Duration
	gateOpts       []gate.Option
	logger         *zap.SugaredLogger
}

// Option configures a Session.
type Option func(*config)

// WithDefaults pre-fills values without marking them dirty.
func WithDefaults(r signupform.FormRecord) Option {
	return func(c *config) { c.defaults = r }
}

// WithCommitter sets where accepted submissions go.
func WithCommitter(cm gate.Committer) Option {
	return func(c *config) { c.committer = cm }
}

// WithNoticeHandler adds a consumer for transient notices. Notices are
// also queued for TakeNotices.
func WithNoticeHandler(h signupform.NoticeHandler) Option {
	return func(c *config) {
		if h != nil {
			c.handlers = append(c.handlers, h)
		}
	}
}

// WithNoticeDuration overrides how long notices ask to be shown.
func WithNoticeDuration(d time.Duration) Option {
	return func(c *config) { c.noticeDuration = d }
}

// WithGateOptions passes extra options to the submission gate, e.g. a
// clock or ID generator.
func WithGateOptions(opts ...gate.Option) Option {
	return func(c *config) { c.gateOpts = append(c.gateOpts, opts...) }
}

// WithLogger sets the logger shared by the session's components.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Session is one live signup form.
type Session struct {
	engine   *engine.Engine
	stage    *stage.Controller
	gate     *gate.Gate
	handlers []signupform.NoticeHandler
	pending  []signupform.Notice
	logger   *zap.SugaredLogger
}

// NewSession returns a session at the identity stage with every field at
// its default value.
func NewSession(opts ...Option) *Session {
	cfg := config{logger: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(&cfg)
	}

	s := &Session{handlers: cfg.handlers, logger: cfg.logger}
	s.engine = engine.New(engine.WithDefaults(cfg.defaults))
	s.stage = stage.New(s.engine, stage.WithLogger(cfg.logger.Named("stage")))

	gateOpts := []gate.Option{
		gate.WithLogger(cfg.logger.Named("gate")),
		gate.WithNoticeHandler(s.emit),
		gate.WithNoticeDuration(cfg.noticeDuration),
		gate.WithCommitter(cfg.committer),
	}
	s.gate = gate.New(append(gateOpts, cfg.gateOpts...)...)
	return s
}

func (s *Session) emit(n signupform.Notice) {
	s.pending = append(s.pending, n)
	for _, h := range s.handlers {
		h(n)
	}
}

// OnFieldChange stores a new value for field and re-validates it.
func (s *Session) OnFieldChange(field signupform.FieldName, value string) error {
	return s.engine.SetValue(field, value)
}

// OnFieldBlur marks field as interacted with.
func (s *Session) OnFieldBlur(field signupform.FieldName) error {
	return s.engine.Blur(field)
}

// OnAdvanceClick requests identity -> credentials and reports whether the
// stage changed.
func (s *Session) OnAdvanceClick(ctx context.Context) bool {
	return s.stage.RequestAdvance(ctx)
}

// OnRetreatClick requests credentials -> identity and reports whether the
// stage changed.
func (s *Session) OnRetreatClick(ctx context.Context) bool {
	return s.stage.RequestRetreat(ctx)
}

// OnSubmitClick validates every field, then hands the record to the gate.
// Field failures come back as signupform.Issues and are also visible on
// each FieldState; the gate is not called. A password mismatch returns
// signupform.ErrPasswordMismatch and queues a notice. The stage never
// changes.
func (s *Session) OnSubmitClick(ctx context.Context) (signupform.Submission, error) {
	if s.stage.Current() != signupform.StageCredentials {
		return signupform.Submission{}, signupform.ErrNotAtCredentials
	}
	if err := s.engine.TriggerValidation(); err != nil {
		return signupform.Submission{}, fmt.Errorf("validate form: %w", err)
	}
	if iss := s.engine.Issues(); len(iss) > 0 {
		s.logger.Debugf("Submit blocked by field errors: %s", iss.Error())
		return signupform.Submission{}, iss
	}
	return s.gate.Submit(ctx, s.engine.Record())
}

// Stage returns the active stage.
func (s *Session) Stage() signupform.Stage { return s.stage.Current() }

// FieldState returns a copy of one field's state.
func (s *Session) FieldState(field signupform.FieldName) (signupform.FieldState, error) {
	return s.engine.FieldState(field)
}

// FieldStates returns copies of every field's state in form order.
func (s *Session) FieldStates() []signupform.FieldState { return s.engine.States() }

// Record returns a copy of the record under construction.
func (s *Session) Record() signupform.FormRecord { return s.engine.Record() }

// TakeNotices returns queued notices and clears the queue.
func (s *Session) TakeNotices() []signupform.Notice {
	out := slices.Clone(s.pending)
	s.pending = s.pending[:0]
	return out
}

// Reset restores defaults, clears dirtiness and pending notices, and
// returns to the identity stage.
func (s *Session) Reset() {
	s.engine.Reset()
	s.stage.Reset()
	s.pending = nil
}
