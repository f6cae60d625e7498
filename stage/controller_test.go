package stage_test

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	signupform "github.com/reoring/signupform"
	"github.com/reoring/signupform/engine"
	"github.com/reoring/signupform/stage"
)

var validIdentity = map[signupform.FieldName]string{
	signupform.FieldUsername: "홍길동",
	signupform.FieldEmail:    "hello@sparta-devcamp.com",
	signupform.FieldPhone:    "01012345678",
	signupform.FieldRole:     "admin",
}

func newController(t *testing.T, opts ...stage.Option) (*engine.Engine, *stage.Controller) {
	t.Helper()
	e := engine.New()
	opts = append([]stage.Option{stage.WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return e, stage.New(e, opts...)
}

func fill(t *testing.T, e *engine.Engine, values map[signupform.FieldName]string) {
	t.Helper()
	for f, v := range values {
		if err := e.SetValue(f, v); err != nil {
			t.Fatalf("set %s: %v", f, err)
		}
	}
}

func TestController_StartsAtIdentity(t *testing.T) {
	_, c := newController(t)
	if c.Current() != signupform.StageIdentity {
		t.Fatalf("expected identity, got %s", c.Current())
	}
	if !c.Can(stage.EventAdvance) || c.Can(stage.EventRetreat) {
		t.Fatalf("unexpected transition table at identity")
	}
}

func TestRequestAdvance_AllFieldsValid(t *testing.T) {
	e, c := newController(t)
	fill(t, e, validIdentity)
	if !c.RequestAdvance(context.Background()) {
		t.Fatalf("expected advance")
	}
	if c.Current() != signupform.StageCredentials {
		t.Fatalf("expected credentials, got %s", c.Current())
	}
}

func TestRequestAdvance_EachFieldAloneBlocks(t *testing.T) {
	invalid := map[signupform.FieldName]string{
		signupform.FieldUsername: "a",
		signupform.FieldEmail:    "not-an-email",
		signupform.FieldPhone:    "02012345678",
		signupform.FieldRole:     "x",
	}
	for _, blocker := range stage.IdentityFields {
		t.Run(string(blocker)+"_invalid", func(t *testing.T) {
			e, c := newController(t)
			values := map[signupform.FieldName]string{}
			for f, v := range validIdentity {
				values[f] = v
			}
			values[blocker] = invalid[blocker]
			fill(t, e, values)

			if c.RequestAdvance(context.Background()) {
				t.Fatalf("advance must be blocked by %s", blocker)
			}
			if c.Current() != signupform.StageIdentity {
				t.Fatalf("stage must not change")
			}
			st, _ := e.FieldState(blocker)
			if st.Message == "" {
				t.Fatalf("blocking field must surface its message")
			}
		})
		t.Run(string(blocker)+"_untouched", func(t *testing.T) {
			e, c := newController(t)
			values := map[signupform.FieldName]string{}
			for f, v := range validIdentity {
				if f != blocker {
					values[f] = v
				}
			}
			fill(t, e, values)

			if c.RequestAdvance(context.Background()) {
				t.Fatalf("advance must be blocked by untouched %s", blocker)
			}
			st, _ := e.FieldState(blocker)
			if !st.Dirty || st.Valid {
				t.Fatalf("untouched field must be triggered and fail, got %+v", st)
			}
		})
	}
}

func TestRequestAdvance_DoesNotTouchCredentialFields(t *testing.T) {
	e, c := newController(t)
	c.RequestAdvance(context.Background())
	st, _ := e.FieldState(signupform.FieldPassword)
	if st.Dirty {
		t.Fatalf("advance must only trigger identity fields")
	}
}

func TestRequestAdvance_AtCredentialsIsNoop(t *testing.T) {
	e, c := newController(t)
	fill(t, e, validIdentity)
	c.RequestAdvance(context.Background())
	if c.RequestAdvance(context.Background()) {
		t.Fatalf("second advance must report no transition")
	}
	if c.Current() != signupform.StageCredentials {
		t.Fatalf("stage must stay at credentials")
	}
}

func TestRequestRetreat_AlwaysSucceedsAndKeepsValues(t *testing.T) {
	e, c := newController(t)
	fill(t, e, validIdentity)
	c.RequestAdvance(context.Background())
	fill(t, e, map[signupform.FieldName]string{
		signupform.FieldPassword:        "Abc123!@",
		signupform.FieldConfirmPassword: "bad",
	})
	before := e.States()

	if !c.RequestRetreat(context.Background()) {
		t.Fatalf("retreat must succeed")
	}
	if c.Current() != signupform.StageIdentity {
		t.Fatalf("expected identity")
	}
	after := e.States()
	for i := range before {
		if before[i].Value != after[i].Value || before[i].Dirty != after[i].Dirty || before[i].Valid != after[i].Valid {
			t.Fatalf("retreat changed %s: %+v -> %+v", before[i].Name, before[i], after[i])
		}
	}

	if !c.RequestAdvance(context.Background()) {
		t.Fatalf("re-advance must succeed")
	}
	if e.Record().Password != "Abc123!@" || e.Record().ConfirmPassword != "bad" {
		t.Fatalf("credential values lost across round-trip: %+v", e.Record())
	}
}

func TestRequestRetreat_AtIdentityIsNoop(t *testing.T) {
	_, c := newController(t)
	if c.RequestRetreat(context.Background()) {
		t.Fatalf("retreat at identity must report no transition")
	}
}

func TestObserversAndLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var seen [][2]signupform.Stage
	e, c := newController(t,
		stage.WithLogger(zap.New(core).Sugar()),
		stage.OnTransition(func(from, to signupform.Stage) { seen = append(seen, [2]signupform.Stage{from, to}) }),
	)

	c.RequestAdvance(context.Background())
	if logs.FilterMessageSnippet("Advance blocked").Len() != 1 {
		t.Fatalf("expected blocked advance to be logged, got %v", logs.All())
	}

	fill(t, e, validIdentity)
	c.RequestAdvance(context.Background())
	c.RequestRetreat(context.Background())

	want := [][2]signupform.Stage{
		{signupform.StageIdentity, signupform.StageCredentials},
		{signupform.StageCredentials, signupform.StageIdentity},
	}
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] {
		t.Fatalf("unexpected transitions %v", seen)
	}
	for _, entry := range logs.All() {
		for _, v := range validIdentity {
			if strings.Contains(entry.Message, v) {
				t.Fatalf("field values must not be logged: %q", entry.Message)
			}
		}
	}
}

func TestWithGateFields(t *testing.T) {
	e, c := newController(t, stage.WithGateFields(signupform.FieldUsername))
	fill(t, e, map[signupform.FieldName]string{signupform.FieldUsername: "홍길동"})
	if !c.RequestAdvance(context.Background()) {
		t.Fatalf("custom gate must only require username")
	}
}

func TestReset(t *testing.T) {
	e, c := newController(t)
	fill(t, e, validIdentity)
	c.RequestAdvance(context.Background())
	c.Reset()
	if c.Current() != signupform.StageIdentity {
		t.Fatalf("reset must return to identity")
	}
}

func TestBlockedError_Message(t *testing.T) {
	err := &stage.BlockedError{Fields: []signupform.FieldName{signupform.FieldEmail, signupform.FieldRole}}
	if err.Error() != "advance blocked by email, role" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
