// Package validate checks content files against frontmatter syntax rules and
// component schemas.
package validate

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-slug"
	"github.com/rs/zerolog"

	"github.com/colonyops/fmguard/internal/core/drive"
	"github.com/colonyops/fmguard/internal/core/frontmatter"
	"github.com/colonyops/fmguard/internal/core/schema"
)

// Options tune the checker. They map onto config fields one to one.
type Options struct {
	Languages        []string
	StrictComponents bool
	StrictYAML       bool
	ForbidBodyH1     bool
	MinDriveIDLength int
}

// Checker validates content files. It holds no per-file state and can be
// reused across files.
type Checker struct {
	registry *schema.Registry
	opts     Options
	log      zerolog.Logger
}

// NewChecker creates a checker backed by the given component registry.
func NewChecker(registry *schema.Registry, opts Options, log zerolog.Logger) *Checker {
	return &Checker{registry: registry, opts: opts, log: log}
}

// Check validates the content of one file. path is only used for reporting.
func (c *Checker) Check(path string, content []byte) Result {
	res := Result{Path: path}

	doc, err := frontmatter.Parse(content)
	if err != nil {
		res.add(delimiterIssue(err))
		c.log.Debug().Str("file", path).Err(err).Msg("frontmatter rejected")
		return res
	}

	for _, p := range doc.Problems {
		res.add(Issue{
			Code:     Code(p.Code),
			Severity: SeverityError,
			Line:     p.Line,
			Field:    p.Key,
			Message:  p.Message,
		})
	}

	c.checkComponent(&res, doc)
	c.checkFieldRules(&res, doc)

	if c.opts.StrictYAML {
		for _, issue := range crossCheckYAML(content, doc) {
			res.add(issue)
		}
	}

	c.log.Debug().
		Str("file", path).
		Str("component", res.Component).
		Int("errors", len(res.Errors())).
		Int("warnings", len(res.Warnings())).
		Msg("checked")

	return res
}

func delimiterIssue(err error) Issue {
	code := CodeMissingClosing
	if errors.Is(err, frontmatter.ErrMissingOpening) {
		code = CodeMissingOpening
	}
	return Issue{Code: code, Severity: SeverityError, Line: 1, Message: err.Error()}
}

func (c *Checker) checkComponent(res *Result, doc *frontmatter.Document) {
	value, ok := doc.Get("component")
	switch {
	case !ok:
		res.add(Issue{
			Code:     CodeMissingRequired,
			Severity: SeverityError,
			Field:    "component",
			Message:  `missing required field "component"`,
		})
		return
	case value.IsEmpty():
		res.add(Issue{
			Code:     CodeEmptyRequired,
			Severity: SeverityError,
			Line:     doc.LineOf("component"),
			Field:    "component",
			Message:  `required field "component" is empty`,
		})
		return
	}

	name := value.String()
	comp, ok := c.registry.Lookup(name)
	if !ok {
		severity := SeverityWarning
		if c.opts.StrictComponents {
			severity = SeverityError
		}
		res.add(Issue{
			Code:     CodeUnknownComponent,
			Severity: severity,
			Line:     doc.LineOf("component"),
			Field:    "component",
			Message:  fmt.Sprintf("unknown component %q (known: %v)", name, c.registry.Names()),
		})
		return
	}

	res.Component = comp.Name
	c.checkSchema(res, doc, comp)
}

func (c *Checker) checkSchema(res *Result, doc *frontmatter.Document, comp *schema.Component) {
	for _, field := range comp.Required {
		value, ok := doc.Get(field)
		switch {
		case !ok:
			res.add(Issue{
				Code:     CodeMissingRequired,
				Severity: SeverityError,
				Field:    field,
				Message:  fmt.Sprintf("missing required field %q", field),
			})
		case value.IsEmpty():
			res.add(Issue{
				Code:     CodeEmptyRequired,
				Severity: SeverityError,
				Line:     doc.LineOf(field),
				Field:    field,
				Message:  fmt.Sprintf("required field %q is empty", field),
			})
		}
	}

	for _, line := range doc.Fields() {
		if !comp.Known(line.Key) {
			res.add(Issue{
				Code:     CodeUnknownField,
				Severity: SeverityWarning,
				Line:     line.Number,
				Field:    line.Key,
				Message:  fmt.Sprintf("field %q is not part of %s", line.Key, comp.Name),
			})
			continue
		}

		if line.Value.IsEmpty() {
			continue
		}

		want := comp.TypeOf(line.Key)
		if !matchesType(want, line.Value) {
			res.add(Issue{
				Code:     CodeInvalidType,
				Severity: SeverityError,
				Line:     line.Number,
				Field:    line.Key,
				Message:  fmt.Sprintf("field %q must be %s, got %s", line.Key, want, line.Value.Kind),
			})
		}
	}

	c.checkBody(res, doc, comp)

	if comp.HasJSONSchema() {
		violations, err := comp.Check(doc.Map())
		if err != nil {
			res.add(Issue{Code: CodeSchemaViolation, Severity: SeverityError, Message: err.Error()})
			return
		}
		for _, v := range violations {
			field := trimPointer(v.Pointer)
			res.add(Issue{
				Code:     CodeSchemaViolation,
				Severity: SeverityError,
				Line:     doc.LineOf(field),
				Field:    field,
				Message:  fmt.Sprintf("%s: %s", pointerLabel(v.Pointer), v.Message),
			})
		}
	}
}

func (c *Checker) checkBody(res *Result, doc *frontmatter.Document, comp *schema.Component) {
	stats := InspectBody(doc.Body)

	switch comp.BodyPolicy() {
	case schema.BodyRequired:
		if stats.Blocks == 0 {
			res.add(Issue{
				Code:     CodeMissingBody,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s requires markdown content after the frontmatter", comp.Name),
			})
		}
	case schema.BodyForbidden:
		if stats.Blocks > 0 {
			res.add(Issue{
				Code:     CodeUnexpectedBody,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s must not have markdown content after the frontmatter", comp.Name),
			})
		}
	}

	if stats.H1 > 0 && doc.Has("title") {
		severity := SeverityWarning
		if c.opts.ForbidBodyH1 {
			severity = SeverityError
		}
		res.add(Issue{
			Code:     CodeDuplicateTitleHeading,
			Severity: severity,
			Message:  "body has a level-1 heading but the page title is rendered from frontmatter",
		})
	}
}

func (c *Checker) checkFieldRules(res *Result, doc *frontmatter.Document) {
	if v, ok := doc.Get("audio_source"); ok && !v.IsEmpty() {
		if _, err := drive.Check(v.String(), c.opts.MinDriveIDLength); err != nil {
			res.add(Issue{
				Code:     driveCode(err),
				Severity: SeverityError,
				Line:     doc.LineOf("audio_source"),
				Field:    "audio_source",
				Message:  fmt.Sprintf("%v: %q", err, v.String()),
			})
		}
	}

	if v, ok := doc.Get("slug"); ok && v.Kind == frontmatter.KindString && !v.IsEmpty() {
		if !slug.IsValid(v.String()) {
			res.add(Issue{
				Code:     CodeInvalidSlug,
				Severity: SeverityError,
				Line:     doc.LineOf("slug"),
				Field:    "slug",
				Message:  fmt.Sprintf("slug %q is not a valid URL slug", v.String()),
			})
		}
	}

	if len(c.opts.Languages) > 0 {
		if v, ok := doc.Get("language"); ok && !v.IsEmpty() && !slices.Contains(c.opts.Languages, v.String()) {
			res.add(Issue{
				Code:     CodeInvalidLanguage,
				Severity: SeverityError,
				Line:     doc.LineOf("language"),
				Field:    "language",
				Message:  fmt.Sprintf("language %q is not one of %v", v.String(), c.opts.Languages),
			})
		}
	}
}

func driveCode(err error) Code {
	switch {
	case errors.Is(err, drive.ErrNotHTTP):
		return CodeAudioNotHTTP
	case errors.Is(err, drive.ErrNotDrive):
		return CodeAudioNotDrive
	default:
		return CodeAudioMissingFileID
	}
}

func matchesType(want schema.FieldType, v frontmatter.Value) bool {
	switch want {
	case schema.TypeString:
		return v.Kind == frontmatter.KindString
	case schema.TypeBool:
		return v.Kind == frontmatter.KindBool
	case schema.TypeInt:
		return v.Kind == frontmatter.KindInt
	case schema.TypeArray:
		return v.Kind == frontmatter.KindArray
	default:
		return true
	}
}
