package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	signupform "github.com/reoring/signupform"
	"github.com/reoring/signupform/form"
	"github.com/reoring/signupform/gate"
	"github.com/reoring/signupform/i18n"
	"github.com/reoring/signupform/internal/config"
	"github.com/reoring/signupform/internal/logging"
	"github.com/reoring/signupform/schema"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches a subcommand and returns the process exit status. The
// logger is flushed before returning.
func run(args []string) int {
	if len(args) < 1 {
		usage()
		return 2
	}
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	i18n.SetLanguage(cfg.Lang)
	logger := logging.New(os.Stderr, cfg.LogLevel, logging.Format(cfg.LogFormat))
	defer func() { _ = logger.Sync() }()

	switch args[0] {
	case "validate":
		return validateCmd(args[1:], os.Stdout)
	case "schema":
		return schemaCmd(args[1:], os.Stdout)
	case "replay":
		return replayCmd(args[1:], os.Stdout, cfg, logger.Sugar())
	default:
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "signupform CLI\n\nUsage:\n  signupform validate field=value [field=value ...]\n  signupform schema\n  signupform replay -f script.yaml [-format yaml|json]\n\nEnvironment:\n  SIGNUP_LANG, SIGNUP_LOG_LEVEL, SIGNUP_LOG_FORMAT, SIGNUP_GATE_SCHEMA_CHECK, SIGNUP_NOTICE_DURATION")
}

type outcomeView struct {
	Field   signupform.FieldName `json:"field"`
	Valid   bool                 `json:"valid"`
	Message string               `json:"message,omitempty"`
	Codes   []string             `json:"codes,omitempty"`
}

// validateCmd runs single-field rules and returns the exit status: 0 when
// every value is valid, 1 otherwise.
func validateCmd(args []string, w io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	status := 0
	views := make([]outcomeView, 0, fs.NArg())
	for _, arg := range fs.Args() {
		name, value, ok := strings.Cut(arg, "=")
		field := signupform.FieldName(name)
		if !ok || !field.Known() {
			fmt.Fprintf(os.Stderr, "invalid argument %q: want field=value with field one of %v\n", arg, signupform.AllFields)
			return 2
		}
		out := schema.Validate(field, value)
		v := outcomeView{Field: field, Valid: out.Valid, Message: out.Message}
		for _, it := range out.Issues {
			v.Codes = append(v.Codes, it.Code)
		}
		if !out.Valid {
			status = 1
		}
		views = append(views, v)
	}
	if err := writeJSON(w, views); err != nil {
		return errorf("%v", err)
	}
	return status
}

func schemaCmd(args []string, w io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	_ = fs.Parse(args)
	if err := writeJSON(w, schema.Signup().JSONSchema()); err != nil {
		return errorf("%v", err)
	}
	return 0
}

type resultView struct {
	Step       int                    `json:"step"`
	Event      string                 `json:"event"`
	Stage      string                 `json:"stage"`
	Changed    bool                   `json:"changed,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Notices    []signupform.Notice    `json:"notices,omitempty"`
	Submission *signupform.Submission `json:"submission,omitempty"`
}

type fieldView struct {
	Field   signupform.FieldName `json:"field"`
	Dirty   bool                 `json:"dirty"`
	Valid   bool                 `json:"valid"`
	Message string               `json:"message,omitempty"`
}

type replayView struct {
	Steps  []resultView `json:"steps"`
	Stage  string       `json:"stage"`
	Fields []fieldView  `json:"fields"`
}

// replayCmd drives a session through a script and prints every step plus
// the final field states. Committed records go to stderr as indented JSON.
// It returns 0 when the script ends with an accepted submission.
func replayCmd(args []string, w io.Writer, cfg config.Config, logger *zap.SugaredLogger) int {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	var file, format string
	fs.StringVar(&file, "f", "", "script file (YAML or JSON)")
	fs.StringVar(&format, "format", "", "script format: yaml or json (default: from extension)")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		return 2
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".json":
			format = "json"
		case ".yaml", ".yml":
			format = "yaml"
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return errorf("reading script: %v", err)
	}
	sc, err := form.LoadScript(data, format)
	if err != nil {
		return errorf("loading script: %v", err)
	}

	s := form.NewSession(
		form.WithDefaults(sc.Defaults),
		form.WithLogger(logger),
		form.WithNoticeDuration(cfg.NoticeDuration),
		form.WithCommitter(gate.NewJSONCommitter(os.Stderr)),
		form.WithGateOptions(gate.WithSchemaCheck(cfg.GateSchemaCheck)),
	)

	view := replayView{}
	accepted := false
	for i, res := range s.Replay(context.Background(), sc.Events) {
		rv := resultView{
			Step:       i + 1,
			Event:      res.Event.String(),
			Stage:      res.Stage.String(),
			Changed:    res.Changed,
			Notices:    res.Notices,
			Submission: res.Submission,
		}
		if res.Err != nil {
			rv.Error = describe(res.Err)
		}
		accepted = res.Submission != nil
		view.Steps = append(view.Steps, rv)
	}
	view.Stage = s.Stage().String()
	for _, st := range s.FieldStates() {
		view.Fields = append(view.Fields, fieldView{Field: st.Name, Dirty: st.Dirty, Valid: st.Valid, Message: st.Message})
	}
	if err := writeJSON(w, view); err != nil {
		return errorf("%v", err)
	}
	if !accepted {
		return 1
	}
	return 0
}

func describe(err error) string {
	if iss, ok := signupform.AsIssues(err); ok {
		parts := make([]string, 0, len(iss))
		for _, it := range iss {
			parts = append(parts, fmt.Sprintf("%s: %s", it.Path, it.Message))
		}
		return strings.Join(parts, "; ")
	}
	if errors.Is(err, signupform.ErrPasswordMismatch) {
		return i18n.T(signupform.CodeMismatch, nil)
	}
	return err.Error()
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// errorf reports a failure on stderr and returns the usage exit status.
func errorf(format string, a ...any) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", a...)
	return 2
}
