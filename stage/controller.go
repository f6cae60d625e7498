// Package stage implements the two-state controller that moves the form
// between the identity and credentials screens.
package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	signupform "github.com/reoring/signupform"
)

const (
	EventAdvance = "advance"
	EventRetreat = "retreat"
)

// FSM state names, derived from Stage.String.
var (
	StateIdentity    = signupform.StageIdentity.String()
	StateCredentials = signupform.StageCredentials.String()
)

// IdentityFields gate the identity -> credentials transition.
var IdentityFields = []signupform.FieldName{
	signupform.FieldUsername,
	signupform.FieldEmail,
	signupform.FieldPhone,
	signupform.FieldRole,
}

// FieldGate is the part of the validation engine the controller needs.
type FieldGate interface {
	TriggerValidation(fields ...signupform.FieldName) error
	Blocking(fields ...signupform.FieldName) ([]signupform.FieldName, error)
}

// BlockedError cancels an advance when some gate fields are not both dirty
// and valid.
type BlockedError struct {
	Fields []signupform.FieldName
}

func (e *BlockedError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return "advance blocked by " + strings.Join(names, ", ")
}

// TransitionFunc observes completed transitions.
type TransitionFunc func(from, to signupform.Stage)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGateFields replaces IdentityFields as the advance gate.
func WithGateFields(fields ...signupform.FieldName) Option {
	return func(c *Controller) { c.gateFields = append([]signupform.FieldName(nil), fields...) }
}

// OnTransition registers fn to run after every completed transition.
func OnTransition(fn TransitionFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// Controller is the stage state machine. Advancing is all-or-nothing:
// every gate field must be dirty and valid after a forced validation.
// Retreating always succeeds and touches no field.
type Controller struct {
	fsm        *fsm.FSM
	gate       FieldGate
	gateFields []signupform.FieldName
	observers  []TransitionFunc
	logger     *zap.SugaredLogger
}

// New returns a controller at the identity stage.
func New(gate FieldGate, opts ...Option) *Controller {
	c := &Controller{
		gate:       gate,
		gateFields: IdentityFields,
		logger:     zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(c)
	}

	c.fsm = fsm.NewFSM(
		StateIdentity,
		fsm.Events{
			{Name: EventAdvance, Src: []string{StateIdentity}, Dst: StateCredentials},
			{Name: EventRetreat, Src: []string{StateCredentials}, Dst: StateIdentity},
		},
		fsm.Callbacks{
			"before_" + EventAdvance: c.checkGate,
			"enter_state":            c.entered,
		},
	)
	return c
}

func (c *Controller) checkGate(_ context.Context, e *fsm.Event) {
	if err := c.gate.TriggerValidation(c.gateFields...); err != nil {
		e.Cancel(err)
		return
	}
	blocking, err := c.gate.Blocking(c.gateFields...)
	if err != nil {
		e.Cancel(err)
		return
	}
	if len(blocking) > 0 {
		e.Cancel(&BlockedError{Fields: blocking})
	}
}

func (c *Controller) entered(_ context.Context, e *fsm.Event) {
	from, _ := signupform.ParseStage(e.Src)
	to, _ := signupform.ParseStage(e.Dst)
	c.logger.Debugf("Stage changed from %s to %s on %s", e.Src, e.Dst, e.Event)
	for _, fn := range c.observers {
		fn(from, to)
	}
}

// RequestAdvance moves identity -> credentials when every gate field is
// dirty and valid. Otherwise, or when already at credentials, nothing
// changes and it returns false; field messages carry the reason.
func (c *Controller) RequestAdvance(ctx context.Context) bool {
	return c.send(ctx, EventAdvance)
}

// RequestRetreat moves credentials -> identity. It performs no validation
// and field values are kept. At identity it is a no-op returning false.
func (c *Controller) RequestRetreat(ctx context.Context) bool {
	return c.send(ctx, EventRetreat)
}

func (c *Controller) send(ctx context.Context, event string) bool {
	err := c.fsm.Event(ctx, event)
	if err == nil {
		return true
	}

	var (
		canceled fsm.CanceledError
		invalid  fsm.InvalidEventError
		blocked  *BlockedError
	)
	switch {
	case errors.As(err, &canceled) && errors.As(canceled.Err, &blocked):
		c.logger.Debugf("Advance blocked: %s", blocked.Error())
	case errors.As(err, &invalid):
		c.logger.Debugf("Ignoring %s in stage %s", event, invalid.State)
	default:
		c.logger.Warnf("Stage event %s failed: %s", event, err)
	}
	return false
}

// Current returns the active stage.
func (c *Controller) Current() signupform.Stage {
	st, ok := signupform.ParseStage(c.fsm.Current())
	if !ok {
		panic(fmt.Sprintf("stage: unexpected fsm state %q", c.fsm.Current()))
	}
	return st
}

// Can reports whether event is allowed from the current stage, ignoring the
// field gate.
func (c *Controller) Can(event string) bool { return c.fsm.Can(event) }

// Reset returns to the identity stage without notifying observers.
func (c *Controller) Reset() { c.fsm.SetState(StateIdentity) }
