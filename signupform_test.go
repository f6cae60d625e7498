package signupform_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	signupform "github.com/reoring/signupform"
)

func TestFormRecord_GetSet(t *testing.T) {
	var r signupform.FormRecord
	for i, f := range signupform.AllFields {
		if !r.Set(f, fmt.Sprint(i)) {
			t.Fatalf("set %s failed", f)
		}
	}
	for i, f := range signupform.AllFields {
		if v, ok := r.Get(f); !ok || v != fmt.Sprint(i) {
			t.Fatalf("get %s = %q, %v", f, v, ok)
		}
	}
	if r.Set("nickname", "x") {
		t.Fatalf("unknown field must not be set")
	}
	if _, ok := r.Get("nickname"); ok {
		t.Fatalf("unknown field must not be found")
	}
}

func TestFieldName(t *testing.T) {
	if !signupform.FieldConfirmPassword.Known() || signupform.FieldName("nickname").Known() {
		t.Fatalf("Known mismatch")
	}
	if signupform.FieldPhone.Pointer() != "/phone" {
		t.Fatalf("unexpected pointer %s", signupform.FieldPhone.Pointer())
	}
}

func TestStage_StringRoundTrip(t *testing.T) {
	for _, st := range []signupform.Stage{signupform.StageIdentity, signupform.StageCredentials} {
		back, ok := signupform.ParseStage(st.String())
		if !ok || back != st {
			t.Fatalf("round trip failed for %v", st)
		}
	}
	if _, ok := signupform.ParseStage("done"); ok {
		t.Fatalf("unexpected stage parse")
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := signupform.Issues{
		{Path: "/username", Code: signupform.CodeTooShort},
		{Path: "/email", Code: signupform.CodeInvalidFormat},
		{Path: "/phone", Code: signupform.CodeLength},
		{Path: "/phone", Code: signupform.CodePattern},
	}
	s := iss.Error()
	if !strings.HasPrefix(s, "too_short at /username; invalid_format at /email") || !strings.HasSuffix(s, "(total 4)") {
		t.Fatalf("unexpected summary %q", s)
	}
	if len(iss.ByField()[signupform.FieldPhone]) != 2 {
		t.Fatalf("expected two phone issues")
	}
	if first, ok := iss.First(); !ok || first.Path != "/username" {
		t.Fatalf("unexpected first %+v", first)
	}
}

func TestAsIssues(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", signupform.Issues{{Path: "/role", Code: signupform.CodeTooShort}})
	iss, ok := signupform.AsIssues(wrapped)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected issues through wrapping, got %v", iss)
	}
	if _, ok := signupform.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain error is not Issues")
	}
	if _, ok := signupform.AsIssues(nil); ok {
		t.Fatalf("nil is not Issues")
	}
}

func TestDecodeRecord(t *testing.T) {
	r, err := signupform.DecodeRecordJSON([]byte(`{"username":"홍길동","role":"user"}`))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if r.Username != "홍길동" || r.Role != "user" || r.Email != "" {
		t.Fatalf("unexpected record %+v", r)
	}
	if _, err := signupform.DecodeRecordJSON([]byte(`{"nickname":"x"}`)); err == nil {
		t.Fatalf("expected unknown key error")
	}

	r, err = signupform.DecodeRecordYAML([]byte("phone: \"01012345678\"\nconfirmPassword: Abc123!@\n"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if r.Phone != "01012345678" || r.ConfirmPassword != "Abc123!@" {
		t.Fatalf("unexpected record %+v", r)
	}
	if r, err = signupform.DecodeRecordYAML(nil); err != nil || r != (signupform.FormRecord{}) {
		t.Fatalf("empty yaml must yield empty record, got %+v %v", r, err)
	}
	if _, err := signupform.DecodeRecordYAML([]byte("nickname: x\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestEncodeRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := signupform.EncodeRecord(&buf, signupform.FormRecord{Role: "admin"}, ""); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"username":"","email":"","phone":"","role":"admin","password":"","confirmPassword":""}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}
