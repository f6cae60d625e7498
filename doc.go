// Package signupform holds the shared types of a two-stage account
// registration form: the FormRecord under construction, per-field state,
// the Stage enum, the Issue error model and transient Notices.
//
// The behaviour lives in sibling packages:
//
//   - schema: the pure per-field rule table (Validate).
//   - engine: per-field state tracking (SetValue, Blur, TriggerValidation).
//   - stage:  the identity -> credentials state machine (RequestAdvance, RequestRetreat).
//   - gate:   the final password-confirmation check and commit (Submit).
//   - form:   a Session that wires the above to renderer events.
//
// Typical usage:
//
//	s := form.NewSession(form.WithCommitter(gate.NewJSONCommitter(os.Stdout)))
//	s.OnFieldChange(signupform.FieldUsername, "홍길동")
//	...
//	if s.OnAdvanceClick(ctx) { ... }
//	sub, err := s.OnSubmitClick(ctx)
package signupform
