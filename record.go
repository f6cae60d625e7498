package signupform

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// EncodeRecord writes r as indented JSON. An empty indent produces compact
// output.
func EncodeRecord(w io.Writer, r FormRecord, indent string) error {
	return encodeJSON(w, r, indent)
}

// EncodeSubmission writes s as indented JSON.
func EncodeSubmission(w io.Writer, s Submission, indent string) error {
	return encodeJSON(w, s, indent)
}

func encodeJSON(w io.Writer, v any, indent string) error {
	var (
		b   []byte
		err error
	)
	if indent == "" {
		b, err = json.Marshal(v)
	} else {
		b, err = json.MarshalIndent(v, "", indent)
	}
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// DecodeRecordJSON reads a FormRecord from JSON. Unknown keys are rejected;
// missing keys stay empty.
func DecodeRecordJSON(data []byte) (FormRecord, error) {
	var r FormRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return FormRecord{}, fmt.Errorf("decode record json: %w", err)
	}
	return r, nil
}

// DecodeRecordYAML reads a FormRecord from YAML. Unknown keys are rejected;
// missing keys stay empty.
func DecodeRecordYAML(data []byte) (FormRecord, error) {
	var r FormRecord
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		if errors.Is(err, io.EOF) {
			return FormRecord{}, nil
		}
		return FormRecord{}, fmt.Errorf("decode record yaml: %w", err)
	}
	return r, nil
}
