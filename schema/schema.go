// Package schema is the declarative rule table of the signup form. It is
// pure: Validate has no side effects and looks at one field only. The
// active i18n catalogue is an input: Code, Key and Params depend on the
// value alone, Message is rendered in the current language.
// Password confirmation equality is not a field rule; see package gate.
package schema

import (
	"regexp"
	"slices"

	signupform "github.com/reoring/signupform"
	js "github.com/reoring/signupform/jsonschema"
	r "github.com/reoring/signupform/rules"
)

// Password length bounds. The outer rule accepts 6 characters but the
// pattern requires 8, so the effective minimum is 8. Both are kept: a
// 6 or 7 character password fails on the pattern message, a shorter one
// on the length message.
const (
	PasswordOuterMinLen   = 6
	PasswordPatternMinLen = 8
	PasswordMaxLen        = 100
)

// PasswordSymbols is the symbol set a password must draw from.
const PasswordSymbols = "@$!%*?&"

var (
	phonePattern = regexp.MustCompile(`^010\d{8}$`)

	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	passwordLetter  = regexp.MustCompile(`[a-zA-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSymbol  = regexp.MustCompile(`[@$!%*?&]`)
)

// RoleOptions are the selectable roles. The role rule itself only checks
// length, so any two-character value passes validation.
var RoleOptions = []string{"admin", "user"}

// Field describes one form field: its rule, the stage it belongs to and
// the hints a renderer needs to draw it.
type Field struct {
	Name        signupform.FieldName
	Stage       signupform.Stage
	Label       string
	Placeholder string
	InputType   string
	// Options are the choices of a select input.
	Options []string
	Rule    r.Rule
	// JSON is the field's JSON Schema fragment for export.
	JSON *js.Schema
}

// Schema maps field names to their rules.
type Schema struct {
	order  []signupform.FieldName
	fields map[signupform.FieldName]Field
}

// New builds a Schema from fields, keeping their order. A later field with
// the same name replaces an earlier one.
func New(fields ...Field) *Schema {
	s := &Schema{fields: make(map[signupform.FieldName]Field, len(fields))}
	for _, f := range fields {
		if _, dup := s.fields[f.Name]; !dup {
			s.order = append(s.order, f.Name)
		}
		s.fields[f.Name] = f
	}
	return s
}

func passwordField(name signupform.FieldName, label string) Field {
	return Field{
		Name:      name,
		Stage:     signupform.StageCredentials,
		Label:     label,
		InputType: "password",
		Rule: r.And(
			r.MinLen(PasswordOuterMinLen),
			r.MaxLen(PasswordMaxLen),
			r.Matches(passwordCharset, passwordLetter, passwordDigit, passwordSymbol),
		),
		JSON: &js.Schema{
			Type:      "string",
			MinLength: js.Int(PasswordOuterMinLen),
			MaxLength: js.Int(PasswordMaxLen),
			Pattern:   passwordCharset.String(),
			AllOf: []*js.Schema{
				{Pattern: passwordLetter.String()},
				{Pattern: passwordDigit.String()},
				{Pattern: passwordSymbol.String()},
			},
		},
	}
}

var signup = New(
	Field{
		Name:        signupform.FieldUsername,
		Stage:       signupform.StageIdentity,
		Label:       "이름",
		Placeholder: "홍길동",
		InputType:   "text",
		Rule:        r.And(r.MinLen(2), r.MaxLen(100)),
		JSON:        &js.Schema{Type: "string", MinLength: js.Int(2), MaxLength: js.Int(100)},
	},
	Field{
		Name:        signupform.FieldEmail,
		Stage:       signupform.StageIdentity,
		Label:       "이메일",
		Placeholder: "hello@sparta-devcamp.com",
		InputType:   "text",
		Rule:        r.Email(),
		JSON:        &js.Schema{Type: "string", Format: "email"},
	},
	Field{
		Name:        signupform.FieldPhone,
		Stage:       signupform.StageIdentity,
		Label:       "연락처",
		Placeholder: "01000000000",
		InputType:   "text",
		Rule:        r.And(r.Len(11), r.Matches(phonePattern)),
		JSON: &js.Schema{
			Type:      "string",
			MinLength: js.Int(11),
			MaxLength: js.Int(11),
			Pattern:   phonePattern.String(),
		},
	},
	Field{
		Name:        signupform.FieldRole,
		Stage:       signupform.StageIdentity,
		Label:       "역할",
		Placeholder: "역할을 선택해주세요",
		InputType:   "select",
		Options:     RoleOptions,
		Rule:        r.MinLen(2),
		JSON:        &js.Schema{Type: "string", MinLength: js.Int(2)},
	},
	passwordField(signupform.FieldPassword, "비밀번호"),
	passwordField(signupform.FieldConfirmPassword, "비밀번호 확인"),
)

// Signup returns the signup form schema.
func Signup() *Schema { return signup }

// Validate evaluates value against the signup schema's rule for field.
func Validate(field signupform.FieldName, value string) signupform.Outcome {
	return signup.Validate(field, value)
}

// Validate evaluates value against the rule for field. The first failing
// rule, in declaration order, supplies Message, rendered through
// i18n.T at call time. A field with no entry is
// reported invalid with no message.
func (s *Schema) Validate(field signupform.FieldName, value string) signupform.Outcome {
	f, ok := s.fields[field]
	if !ok {
		return signupform.Outcome{}
	}
	if f.Rule == nil {
		return signupform.Outcome{Valid: true}
	}
	iss := f.Rule(r.Ctx{Field: field}, value)
	if len(iss) == 0 {
		return signupform.Outcome{Valid: true}
	}
	return signupform.Outcome{Valid: false, Message: iss[0].Message, Issues: iss}
}

// Field returns the entry for name.
func (s *Schema) Field(name signupform.FieldName) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Has reports whether the schema has an entry for name.
func (s *Schema) Has(name signupform.FieldName) bool {
	_, ok := s.fields[name]
	return ok
}

// Fields lists field names in declaration order.
func (s *Schema) Fields() []signupform.FieldName { return slices.Clone(s.order) }

// StageFields lists the fields shown on stage st, in declaration order.
func (s *Schema) StageFields(st signupform.Stage) []signupform.FieldName {
	var out []signupform.FieldName
	for _, name := range s.order {
		if s.fields[name].Stage == st {
			out = append(out, name)
		}
	}
	return out
}

// JSONSchema exports the table as an object schema. Every field is
// required because the record never omits one.
func (s *Schema) JSONSchema() *js.Schema {
	out := &js.Schema{
		Schema:               "https://json-schema.org/draft/2020-12/schema",
		Title:                "signup",
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(s.order)),
		AdditionalProperties: false,
	}
	for _, name := range s.order {
		f := s.fields[name]
		prop := &js.Schema{Type: "string"}
		if f.JSON != nil {
			cp := *f.JSON
			prop = &cp
		}
		prop.Title = f.Label
		prop.Stage = f.Stage.String()
		prop.Placeholder = f.Placeholder
		prop.InputType = f.InputType
		prop.Options = slices.Clone(f.Options)
		out.Properties[string(name)] = prop
		out.Required = append(out.Required, string(name))
	}
	return out
}
