package signupform

import "time"

// FieldName identifies one of the six signup fields. Values match the JSON
// keys of FormRecord.
type FieldName string

const (
	FieldUsername        FieldName = "username"
	FieldEmail           FieldName = "email"
	FieldPhone           FieldName = "phone"
	FieldRole            FieldName = "role"
	FieldPassword        FieldName = "password"
	FieldConfirmPassword FieldName = "confirmPassword"
)

// AllFields lists every field in form order.
var AllFields = []FieldName{
	FieldUsername,
	FieldEmail,
	FieldPhone,
	FieldRole,
	FieldPassword,
	FieldConfirmPassword,
}

// Known reports whether f names one of the six signup fields.
func (f FieldName) Known() bool {
	switch f {
	case FieldUsername, FieldEmail, FieldPhone, FieldRole, FieldPassword, FieldConfirmPassword:
		return true
	}
	return false
}

// Pointer renders the field as a JSON Pointer for Issue paths.
func (f FieldName) Pointer() string { return "/" + string(f) }

// Stage is one of the two sequential screens of the form.
type Stage int

const (
	StageIdentity    Stage = iota // username, email, phone, role
	StageCredentials              // password, confirmPassword
)

func (s Stage) String() string {
	switch s {
	case StageIdentity:
		return "identity"
	case StageCredentials:
		return "credentials"
	default:
		return "unknown"
	}
}

// ParseStage is the inverse of Stage.String.
func ParseStage(s string) (Stage, bool) {
	switch s {
	case "identity":
		return StageIdentity, true
	case "credentials":
		return StageCredentials, true
	}
	return 0, false
}

// FormRecord is the entity under construction. All six fields are always
// present; an unset field is the empty string.
type FormRecord struct {
	Username        string `json:"username" yaml:"username"`
	Email           string `json:"email" yaml:"email"`
	Phone           string `json:"phone" yaml:"phone"`
	Role            string `json:"role" yaml:"role"`
	Password        string `json:"password" yaml:"password"`
	ConfirmPassword string `json:"confirmPassword" yaml:"confirmPassword"`
}

// Get returns the value of field f. Unknown names yield "" and false.
func (r FormRecord) Get(f FieldName) (string, bool) {
	switch f {
	case FieldUsername:
		return r.Username, true
	case FieldEmail:
		return r.Email, true
	case FieldPhone:
		return r.Phone, true
	case FieldRole:
		return r.Role, true
	case FieldPassword:
		return r.Password, true
	case FieldConfirmPassword:
		return r.ConfirmPassword, true
	}
	return "", false
}

// Set assigns v to field f and reports whether f was known.
func (r *FormRecord) Set(f FieldName, v string) bool {
	switch f {
	case FieldUsername:
		r.Username = v
	case FieldEmail:
		r.Email = v
	case FieldPhone:
		r.Phone = v
	case FieldRole:
		r.Role = v
	case FieldPassword:
		r.Password = v
	case FieldConfirmPassword:
		r.ConfirmPassword = v
	default:
		return false
	}
	return true
}

// Outcome is the result of validating one value against one field's rules.
// Message is empty when Valid is true. Issues holds every failing rule in
// declaration order; Message is the first one's message.
type Outcome struct {
	Valid   bool
	Message string
	Issues  Issues
}

// FieldState is the derived per-field state owned by the validation engine.
//
// Valid implies Message == "". Dirty is monotonic until a full reset.
type FieldState struct {
	Name    FieldName
	Value   string
	Dirty   bool
	Valid   bool
	Message string
	Issues  Issues
}

// HasError reports whether the field should render an error message.
func (s FieldState) HasError() bool { return !s.Valid && s.Message != "" }

// Submission is a record accepted by the submission gate. It is a value
// type; callers receive their own copy.
type Submission struct {
	ID          string     `json:"id" yaml:"id"`
	SubmittedAt time.Time  `json:"submittedAt" yaml:"submittedAt"`
	Record      FormRecord `json:"record" yaml:"record"`
}
