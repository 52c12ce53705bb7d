// Package frontmatter scans the key: value metadata block at the top of a
// content file.
//
// The format is a deliberately small subset of YAML: one pair per line, blank
// lines and # comments allowed, values coerced to bool, int, JSON array or
// string. Nested structures are not supported.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	Delimiter = "---"

	opening = Delimiter + "\n"
	closing = "\n" + Delimiter + "\n"
)

var (
	ErrMissingOpening = errors.New("missing opening frontmatter delimiter (---)")
	ErrMissingClosing = errors.New("missing closing frontmatter delimiter (---)")
)

var (
	keyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	bom        = []byte{0xEF, 0xBB, 0xBF}
)

// Code identifies a line level syntax problem.
type Code string

const (
	CodeMissingColon Code = "missing_colon"
	CodeInvalidKey   Code = "invalid_key"
	CodeDuplicateKey Code = "duplicate_key"
	CodeInvalidArray Code = "invalid_array"
)

// Problem is a syntax issue on a single line of the block.
type Problem struct {
	Code    Code   `json:"code"`
	Line    int    `json:"line"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("Line %d: %s", p.Line, p.Message)
}

// LineKind classifies a line inside the block.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineField
	LineInvalid
)

// Line is one line of the block. Number is the 1-based line in the file, so
// the first line after the opening delimiter is 2.
type Line struct {
	Number int
	Kind   LineKind
	Text   string
	Key    string
	Value  Value
}

// Document is a parsed frontmatter block plus the markdown body that follows.
type Document struct {
	Lines    []Line
	Body     string
	Problems []Problem
}

// Normalize drops a UTF-8 byte order mark and converts CRLF and lone CR line
// endings to LF.
func Normalize(content []byte) []byte {
	out := bytes.TrimPrefix(content, bom)
	out = bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n"))
	out = bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
	return out
}

// Split separates normalized content into the raw block and the body. The
// closing delimiter search starts at offset 3 so that an empty block
// ("---\n---\n") is accepted.
func Split(content []byte) (block, body string, err error) {
	text := string(Normalize(content))
	if !strings.HasPrefix(text, opening) {
		return "", "", ErrMissingOpening
	}

	idx := strings.Index(text[len(Delimiter):], closing)
	if idx < 0 {
		return "", "", ErrMissingClosing
	}

	end := len(Delimiter) + idx
	if end > len(opening) {
		block = text[len(opening):end]
	}
	body = text[end+len(closing):]
	return block, body, nil
}

// Parse splits content and scans every block line. Delimiter errors are
// returned as ErrMissingOpening / ErrMissingClosing; line problems are
// collected on the Document so a caller sees all of them at once.
func Parse(content []byte) (*Document, error) {
	block, body, err := Split(content)
	if err != nil {
		return nil, err
	}

	doc := &Document{Body: body}
	if block == "" {
		return doc, nil
	}

	seen := make(map[string]int)
	for i, text := range strings.Split(block, "\n") {
		line, valueErr := scanLine(i+2, text)

		switch line.Kind {
		case LineInvalid:
			doc.Problems = append(doc.Problems, lineProblem(line))
		case LineField:
			if valueErr != nil {
				doc.Problems = append(doc.Problems, Problem{
					Code:    CodeInvalidArray,
					Line:    line.Number,
					Key:     line.Key,
					Message: fmt.Sprintf("invalid array literal for %q: %v", line.Key, valueErr),
				})
			}
			if prev, ok := seen[line.Key]; ok {
				doc.Problems = append(doc.Problems, Problem{
					Code:    CodeDuplicateKey,
					Line:    line.Number,
					Key:     line.Key,
					Message: fmt.Sprintf("duplicate key %q (first defined on line %d)", line.Key, prev),
				})
			} else {
				seen[line.Key] = line.Number
			}
		}

		doc.Lines = append(doc.Lines, line)
	}

	return doc, nil
}

func scanLine(number int, text string) (Line, error) {
	line := Line{Number: number, Text: text}
	trimmed := strings.TrimSpace(text)

	switch {
	case trimmed == "":
		line.Kind = LineBlank
		return line, nil
	case strings.HasPrefix(trimmed, "#"):
		line.Kind = LineComment
		return line, nil
	}

	colon := strings.Index(text, ":")
	if colon < 0 {
		line.Kind = LineInvalid
		return line, nil
	}

	line.Key = strings.TrimSpace(text[:colon])
	if !keyPattern.MatchString(line.Key) {
		line.Kind = LineInvalid
		return line, nil
	}

	line.Kind = LineField
	var err error
	line.Value, err = ParseValue(text[colon+1:])
	return line, err
}

func lineProblem(line Line) Problem {
	if !strings.Contains(line.Text, ":") {
		return Problem{
			Code:    CodeMissingColon,
			Line:    line.Number,
			Message: fmt.Sprintf("expected \"key: value\" but no colon found in %q", strings.TrimSpace(line.Text)),
		}
	}
	return Problem{
		Code:    CodeInvalidKey,
		Line:    line.Number,
		Key:     line.Key,
		Message: fmt.Sprintf("invalid key %q (must match [a-zA-Z_][a-zA-Z0-9_]*)", line.Key),
	}
}

// Fields returns the field lines in file order.
func (d *Document) Fields() []Line {
	fields := make([]Line, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.Kind == LineField {
			fields = append(fields, l)
		}
	}
	return fields
}

// Get returns the first value bound to key.
func (d *Document) Get(key string) (Value, bool) {
	for _, l := range d.Lines {
		if l.Kind == LineField && l.Key == key {
			return l.Value, true
		}
	}
	return Value{}, false
}

func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// LineOf returns the file line number of key, or 0 when absent.
func (d *Document) LineOf(key string) int {
	for _, l := range d.Lines {
		if l.Kind == LineField && l.Key == key {
			return l.Number
		}
	}
	return 0
}

// Map returns the fields as plain Go values. Later duplicates do not
// override the first definition.
func (d *Document) Map() map[string]any {
	m := make(map[string]any)
	for _, l := range d.Fields() {
		if _, ok := m[l.Key]; ok {
			continue
		}
		m[l.Key] = l.Value.Interface()
	}
	return m
}

// Valid reports whether the block has no line problems.
func (d *Document) Valid() bool {
	return len(d.Problems) == 0
}

// RenderLine returns the canonical text of a line: "key: value" for fields,
// right-trimmed text for comments, "" for blanks and the untouched text for
// invalid lines.
func RenderLine(l Line) string {
	switch l.Kind {
	case LineBlank:
		return ""
	case LineComment:
		return strings.TrimRight(l.Text, " \t")
	case LineField:
		if l.Value.Raw == "" {
			return l.Key + ":"
		}
		return l.Key + ": " + l.Value.Raw
	default:
		return l.Text
	}
}

// Render serializes the document back to file content in canonical form.
func (d *Document) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString(opening)
	for _, l := range d.Lines {
		buf.WriteString(RenderLine(l))
		buf.WriteByte('\n')
	}
	buf.WriteString(Delimiter)
	buf.WriteByte('\n')
	buf.WriteString(d.Body)
	return buf.Bytes()
}
