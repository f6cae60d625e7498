package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Only the keywords the signup schema needs are modelled.
type Schema struct {
	// Core
	Schema      string `json:"$schema,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	// AllOf carries additional patterns that must all hold.
	AllOf []*Schema `json:"allOf,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Annotations for renderers
	Stage       string `json:"x-stage,omitempty"`
	Placeholder string `json:"x-placeholder,omitempty"`
	InputType   string `json:"x-input-type,omitempty"`
	// Options lists suggested values for select inputs. Unlike enum it
	// does not restrict what validates.
	Options []string `json:"x-options,omitempty"`
}

// Int returns a pointer to n for the optional integer keywords.
func Int(n int) *int { return &n }
