// Package rules provides per-field string rules and combinators used to
// build a field schema. A rule returns no issues when the value passes.
package rules

import (
	"fmt"
	"regexp"
	"unicode/utf16"

	signupform "github.com/reoring/signupform"
	"github.com/reoring/signupform/i18n"
)

// Ctx identifies the field a rule runs for.
type Ctx struct {
	Field signupform.FieldName
}

// Issue builds an Issue at the field with a message looked up under
// "<field>.<code>" in the current i18n catalogue. kv are alternating
// param keys and values.
func (c Ctx) Issue(code, rule string, kv ...any) signupform.Issue {
	params := map[string]any{}
	data := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		k := fmt.Sprint(kv[i])
		params[k] = kv[i+1]
		data[k] = fmt.Sprint(kv[i+1])
	}
	key := string(c.Field) + "." + code
	return signupform.Issue{
		Path:    c.Field.Pointer(),
		Code:    code,
		Key:     key,
		Message: i18n.T(key, data),
		Params:  params,
		Rule:    rule,
	}
}

// Rule validates a single string value.
type Rule = func(Ctx, string) []signupform.Issue

// Length counts UTF-16 code units, the unit browsers use for string length.
func Length(s string) int {
	n := 0
	for _, r := range s {
		if l := len(utf16.Encode([]rune{r})); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// MinLen requires Length(v) >= n.
func MinLen(n int) Rule {
	return func(c Ctx, v string) []signupform.Issue {
		if Length(v) < n {
			return []signupform.Issue{c.Issue(signupform.CodeTooShort, "minLen", "min", n)}
		}
		return nil
	}
}

// MaxLen requires Length(v) <= n.
func MaxLen(n int) Rule {
	return func(c Ctx, v string) []signupform.Issue {
		if Length(v) > n {
			return []signupform.Issue{c.Issue(signupform.CodeTooLong, "maxLen", "max", n)}
		}
		return nil
	}
}

// Len requires Length(v) == n.
func Len(n int) Rule {
	return func(c Ctx, v string) []signupform.Issue {
		if got := Length(v); got != n {
			return []signupform.Issue{c.Issue(signupform.CodeLength, "len", "len", n, "got", got)}
		}
		return nil
	}
}

// Matches requires every pattern to match v. It yields a single pattern
// issue, so several patterns act as one conjunctive pattern (RE2 has no
// lookahead).
func Matches(patterns ...*regexp.Regexp) Rule {
	return func(c Ctx, v string) []signupform.Issue {
		for _, re := range patterns {
			if !re.MatchString(v) {
				return []signupform.Issue{c.Issue(signupform.CodePattern, "matches", "pattern", re.String())}
			}
		}
		return nil
	}
}

var (
	emailRe         = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)
	emailDoubleDots = regexp.MustCompile(`\.\.`)
)

// Email requires a local@domain address whose domain is one or more
// labels followed by an alphabetic TLD of at least two letters. The local
// part may not start with a dot or contain consecutive dots.
func Email() Rule {
	return func(c Ctx, v string) []signupform.Issue {
		if IsEmail(v) {
			return nil
		}
		return []signupform.Issue{c.Issue(signupform.CodeInvalidFormat, "email", "format", "email")}
	}
}

// IsEmail reports whether v is accepted by Email.
func IsEmail(v string) bool {
	if v == "" || v[0] == '.' || emailDoubleDots.MatchString(v) {
		return false
	}
	return emailRe.MatchString(v)
}

// ---------- Rule combinators ----------

// And executes all rules and concatenates their issues in order.
func And(rules ...Rule) Rule {
	return func(c Ctx, v string) []signupform.Issue {
		var out []signupform.Issue
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, r(c, v)...)
		}
		return out
	}
}
