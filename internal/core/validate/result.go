package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Code identifies the rule an issue came from. Codes are stable and appear in
// JSON output.
type Code string

const (
	CodeReadError             Code = "read_error"
	CodeMissingOpening        Code = "missing_opening_delimiter"
	CodeMissingClosing        Code = "missing_closing_delimiter"
	CodeMissingColon          Code = "missing_colon"
	CodeInvalidKey            Code = "invalid_key"
	CodeDuplicateKey          Code = "duplicate_key"
	CodeInvalidArray          Code = "invalid_array"
	CodeMissingRequired       Code = "missing_required_field"
	CodeEmptyRequired         Code = "empty_required_field"
	CodeInvalidType           Code = "invalid_type"
	CodeUnknownComponent      Code = "unknown_component"
	CodeUnknownField          Code = "unknown_field"
	CodeMissingBody           Code = "missing_body"
	CodeUnexpectedBody        Code = "unexpected_body"
	CodeDuplicateTitleHeading Code = "duplicate_title_heading"
	CodeAudioNotHTTP          Code = "audio_source_not_http"
	CodeAudioNotDrive         Code = "audio_source_not_drive"
	CodeAudioMissingFileID    Code = "audio_source_missing_file_id"
	CodeInvalidSlug           Code = "invalid_slug"
	CodeInvalidLanguage       Code = "invalid_language"
	CodeSchemaViolation       Code = "schema_violation"
	CodeYAMLInvalid           Code = "yaml_invalid"
	CodeYAMLMismatch          Code = "yaml_mismatch"
)

// Severity of an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding for a file. Line is 0 when the issue is not tied to a
// line (for example a missing field).
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("Line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// Result is the outcome of checking one file.
type Result struct {
	Path      string  `json:"path"`
	Component string  `json:"component,omitempty"`
	Issues    []Issue `json:"issues"`
}

// ReadError builds the result for a file that could not be read.
func ReadError(path string, err error) Result {
	return Result{
		Path: path,
		Issues: []Issue{{
			Code:     CodeReadError,
			Severity: SeverityError,
			Message:  fmt.Sprintf("read file: %v", err),
		}},
	}
}

func (r *Result) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// Errors returns the error-severity issues.
func (r Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r Result) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Valid reports whether the file has no errors.
func (r Result) Valid() bool {
	return len(r.Errors()) == 0
}

// Passed reports whether the file passes; in strict mode warnings fail too.
func (r Result) Passed(strict bool) bool {
	if strict {
		return len(r.Issues) == 0
	}
	return r.Valid()
}

// Has reports whether an issue with code was recorded.
func (r Result) Has(code Code) bool {
	for _, i := range r.Issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

// Messages returns the human readable error strings, one per error.
func (r Result) Messages() []string {
	errs := r.Errors()
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.String()
	}
	return out
}

// Err returns the errors as criterio field errors keyed by field name (or
// "line N" for line-level issues), or nil when the file is valid.
func (r Result) Err() error {
	var errs criterio.FieldErrorsBuilder
	for _, i := range r.Errors() {
		errs = errs.Append(i.fieldKey(), fmt.Errorf("%s", i.Message))
	}
	return errs.ToError()
}

func (i Issue) fieldKey() string {
	switch {
	case i.Field != "":
		return i.Field
	case i.Line > 0:
		return fmt.Sprintf("line %d", i.Line)
	default:
		return string(i.Code)
	}
}

func trimPointer(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if idx := strings.Index(ptr, "/"); idx >= 0 {
		ptr = ptr[:idx]
	}
	return ptr
}

func pointerLabel(ptr string) string {
	if ptr == "" {
		return "frontmatter"
	}
	return strings.TrimPrefix(ptr, "/")
}
