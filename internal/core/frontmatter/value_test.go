package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw      string
		wantKind Kind
		want     any
		wantErr  bool
	}{
		{"", KindEmpty, "", false},
		{"   ", KindEmpty, "", false},
		{"true", KindBool, true, false},
		{"false", KindBool, false, false},
		{"TRUE", KindString, "TRUE", false},
		{"42", KindInt, int64(42), false},
		{"-7", KindInt, int64(-7), false},
		{"99999999999999999999", KindString, "99999999999999999999", false},
		{"4.5", KindString, "4.5", false},
		{`["a", "b"]`, KindArray, []any{"a", "b"}, false},
		{"[]", KindArray, []any{}, false},
		{"[a, b]", KindString, "[a, b]", true},
		{`"quoted: value"`, KindString, "quoted: value", false},
		{`'single'`, KindString, "single", false},
		{`"esc\"aped"`, KindString, `esc"aped`, false},
		{`""`, KindString, "", false},
		{"bare words", KindString, "bare words", false},
		{"https://example.com/a?b=c", KindString, "https://example.com/a?b=c", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := ParseValue(tt.raw)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
			assert.Equal(t, tt.wantKind, v.Kind)
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestValue_IsEmpty(t *testing.T) {
	empty, _ := ParseValue("")
	quoted, _ := ParseValue(`""`)
	zero, _ := ParseValue("0")

	assert.True(t, empty.IsEmpty())
	assert.True(t, quoted.IsEmpty())
	assert.False(t, zero.IsEmpty())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
