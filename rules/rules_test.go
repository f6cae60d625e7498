package rules_test

import (
	"regexp"
	"testing"

	signupform "github.com/reoring/signupform"
	r "github.com/reoring/signupform/rules"
)

var ctx = r.Ctx{Field: signupform.FieldUsername}

func codes(iss []signupform.Issue) []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Code)
	}
	return out
}

func TestLength_CountsUTF16Units(t *testing.T) {
	cases := map[string]int{
		"":       0,
		"abc":    3,
		"홍길동":    3,
		"a😀":     3,
		"010123": 6,
	}
	for in, want := range cases {
		if got := r.Length(in); got != want {
			t.Fatalf("Length(%q)=%d want %d", in, got, want)
		}
	}
}

func TestLengthRules(t *testing.T) {
	cases := []struct {
		name string
		rule r.Rule
		in   string
		want string
	}{
		{"min_ok", r.MinLen(2), "ab", ""},
		{"min_fail", r.MinLen(2), "a", signupform.CodeTooShort},
		{"max_ok", r.MaxLen(3), "abc", ""},
		{"max_fail", r.MaxLen(3), "abcd", signupform.CodeTooLong},
		{"len_ok", r.Len(2), "ab", ""},
		{"len_short", r.Len(2), "a", signupform.CodeLength},
		{"len_long", r.Len(2), "abc", signupform.CodeLength},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			iss := tc.rule(ctx, tc.in)
			if tc.want == "" {
				if len(iss) != 0 {
					t.Fatalf("expected no issues, got %v", iss)
				}
				return
			}
			if len(iss) != 1 || iss[0].Code != tc.want {
				t.Fatalf("expected one %s issue, got %v", tc.want, codes(iss))
			}
			if iss[0].Path != "/username" {
				t.Fatalf("expected path /username, got %s", iss[0].Path)
			}
		})
	}
}

func TestMatches_AllPatternsMustMatch(t *testing.T) {
	rule := r.Matches(regexp.MustCompile(`^[a-z0-9]+$`), regexp.MustCompile(`\d`))
	if iss := rule(ctx, "abc1"); len(iss) != 0 {
		t.Fatalf("expected match, got %v", iss)
	}
	iss := rule(ctx, "abc")
	if len(iss) != 1 || iss[0].Code != signupform.CodePattern {
		t.Fatalf("expected single pattern issue, got %v", iss)
	}
}

func TestIsEmail(t *testing.T) {
	cases := map[string]bool{
		"hello@sparta-devcamp.com": true,
		"a.b+tag@mail.example.kr":  true,
		"":                         false,
		"plain":                    false,
		"@example.com":             false,
		"a@b":                      false,
		"a@b.c":                    false,
		".a@example.com":           false,
		"a..b@example.com":         false,
		"a.@example.com":           false,
		"a@-example.com":           false,
		"a@example.c0m":            false,
	}
	for in, want := range cases {
		if got := r.IsEmail(in); got != want {
			t.Fatalf("IsEmail(%q)=%v want %v", in, got, want)
		}
	}
}

func TestAnd_CollectsInDeclarationOrder(t *testing.T) {
	rule := r.And(r.MinLen(6), nil, r.Matches(regexp.MustCompile(`\d`)))
	got := codes(rule(ctx, "ab"))
	if len(got) != 2 || got[0] != signupform.CodeTooShort || got[1] != signupform.CodePattern {
		t.Fatalf("unexpected codes %v", got)
	}
}
