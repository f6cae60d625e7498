package form

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	signupform "github.com/reoring/signupform"
)

// EventKind names a renderer event.
type EventKind string

const (
	EventChange  EventKind = "change"
	EventBlur    EventKind = "blur"
	EventAdvance EventKind = "advance"
	EventRetreat EventKind = "retreat"
	EventSubmit  EventKind = "submit"
	EventReset   EventKind = "reset"
)

// ErrUnknownEvent is returned by Apply for an unrecognized kind.
var ErrUnknownEvent = errors.New("unknown event kind")

// Event is one renderer input, as recorded in a script.
type Event struct {
	Kind  EventKind            `json:"kind" yaml:"kind"`
	Field signupform.FieldName `json:"field,omitempty" yaml:"field,omitempty"`
	Value string               `json:"value,omitempty" yaml:"value,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventChange, EventBlur:
		return fmt.Sprintf("%s %s", e.Kind, e.Field)
	default:
		return string(e.Kind)
	}
}

// Result is what applying one event produced.
type Result struct {
	Event Event
	Stage signupform.Stage
	// Changed is set when advance or retreat moved the stage.
	Changed    bool
	Submission *signupform.Submission
	Notices    []signupform.Notice
	Err        error
}

// Apply dispatches e to the matching On* method.
func (s *Session) Apply(ctx context.Context, e Event) Result {
	res := Result{Event: e}
	switch e.Kind {
	case EventChange:
		res.Err = s.OnFieldChange(e.Field, e.Value)
	case EventBlur:
		res.Err = s.OnFieldBlur(e.Field)
	case EventAdvance:
		res.Changed = s.OnAdvanceClick(ctx)
	case EventRetreat:
		res.Changed = s.OnRetreatClick(ctx)
	case EventSubmit:
		sub, err := s.OnSubmitClick(ctx)
		if err == nil {
			res.Submission = &sub
		}
		res.Err = err
	case EventReset:
		s.Reset()
	default:
		res.Err = fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
	}
	res.Stage = s.Stage()
	res.Notices = s.TakeNotices()
	return res
}

// Replay applies events in order. It stops early only when ctx is done.
func (s *Session) Replay(ctx context.Context, events []Event) []Result {
	out := make([]Result, 0, len(events))
	for _, e := range events {
		if ctx.Err() != nil {
			break
		}
		out = append(out, s.Apply(ctx, e))
	}
	return out
}

// Script is the on-disk form of a replay: optional defaults followed by
// events.
type Script struct {
	Defaults signupform.FormRecord `json:"defaults" yaml:"defaults"`
	Events   []Event               `json:"events" yaml:"events"`
}

// LoadScript decodes a script. format is "json" or "yaml"; "" picks JSON
// when the document starts with '{' and YAML otherwise.
func LoadScript(data []byte, format string) (Script, error) {
	if format == "" {
		format = "yaml"
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			format = "json"
		}
	}

	var sc Script
	switch strings.ToLower(format) {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sc); err != nil {
			return Script{}, fmt.Errorf("decode script json: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
			return Script{}, fmt.Errorf("decode script yaml: %w", err)
		}
	default:
		return Script{}, fmt.Errorf("unsupported script format %q", format)
	}

	for i, e := range sc.Events {
		switch e.Kind {
		case EventChange, EventBlur:
			if !e.Field.Known() {
				return Script{}, fmt.Errorf("event %d (%s): %w: %q", i, e.Kind, signupform.ErrUnknownField, e.Field)
			}
		case EventAdvance, EventRetreat, EventSubmit, EventReset:
		default:
			return Script{}, fmt.Errorf("event %d: %w: %q", i, ErrUnknownEvent, e.Kind)
		}
	}
	return sc, nil
}
