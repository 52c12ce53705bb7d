package frontmatter

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies how a raw frontmatter value was coerced.
type Kind int

const (
	KindEmpty Kind = iota
	KindBool
	KindInt
	KindArray
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

var intPattern = regexp.MustCompile(`^-?[0-9]+$`)

// Value is a coerced frontmatter value. Raw always holds the trimmed text
// that followed the colon.
type Value struct {
	Kind   Kind
	Raw    string
	Quoted bool

	str string
	b   bool
	i   int64
	arr []any
}

// ParseValue coerces raw into a Value. The returned error is non-nil only for
// array literals that are not valid JSON; the Value is then a bare string.
func ParseValue(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	v := Value{Raw: raw}

	switch {
	case raw == "":
		v.Kind = KindEmpty
	case raw == "true" || raw == "false":
		v.Kind = KindBool
		v.b = raw == "true"
	case intPattern.MatchString(raw):
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// out of range, keep the digits as text
			v.Kind = KindString
			v.str = raw
			break
		}
		v.Kind = KindInt
		v.i = n
	case strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"):
		var arr []any
		if err := json.Unmarshal([]byte(raw), &arr); err != nil {
			v.Kind = KindString
			v.str = raw
			return v, err
		}
		if arr == nil {
			arr = []any{}
		}
		v.Kind = KindArray
		v.arr = arr
	case isQuoted(raw):
		v.Kind = KindString
		v.Quoted = true
		v.str = unquote(raw)
	default:
		v.Kind = KindString
		v.str = raw
	}

	return v, nil
}

func isQuoted(raw string) bool {
	if len(raw) < 2 {
		return false
	}
	first, last := raw[0], raw[len(raw)-1]
	return first == last && (first == '"' || first == '\'')
}

func unquote(raw string) string {
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s
		}
	}
	return raw[1 : len(raw)-1]
}

// IsEmpty reports whether the value is the empty string, quoted or not.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty || (v.Kind == KindString && v.str == "")
}

// String returns the text of string values and the raw text otherwise.
func (v Value) String() string {
	if v.Kind == KindString {
		return v.str
	}
	return v.Raw
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.Kind == KindBool
}

func (v Value) Int() (int64, bool) {
	return v.i, v.Kind == KindInt
}

func (v Value) Array() ([]any, bool) {
	return v.arr, v.Kind == KindArray
}

// Interface returns the value as a plain Go value suitable for JSON encoding.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindArray:
		return v.arr
	case KindString:
		return v.str
	default:
		return ""
	}
}
