package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const programPage = `---
# program metadata
language: es
title: Noches de Radio
slug: noches-de-radio
id: 12
component: ProgramPage
public: true
program_order: 3

schedule: "Viernes 22:00"
talent: Ana y Luis
social: ["https://instagram.com/noches"]
logo: /images/noches.png
---
Body text.
`

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantBlock string
		wantBody  string
		wantErr   error
	}{
		{
			name:      "block and body",
			input:     "---\ntitle: x\n---\nbody\n",
			wantBlock: "title: x",
			wantBody:  "body\n",
		},
		{
			name:      "empty block",
			input:     "---\n---\nbody",
			wantBlock: "",
			wantBody:  "body",
		},
		{
			name:      "crlf line endings",
			input:     "---\r\ntitle: x\r\n---\r\nbody\r\n",
			wantBlock: "title: x",
			wantBody:  "body\n",
		},
		{
			name:      "byte order mark",
			input:     "\xEF\xBB\xBF---\ntitle: x\n---\n",
			wantBlock: "title: x",
			wantBody:  "",
		},
		{
			name:    "missing opening delimiter",
			input:   "title: x\n---\n",
			wantErr: ErrMissingOpening,
		},
		{
			name:    "opening delimiter with trailing spaces",
			input:   "---  \ntitle: x\n---\n",
			wantErr: ErrMissingOpening,
		},
		{
			name:    "missing closing delimiter",
			input:   "---\ntitle: x\n",
			wantErr: ErrMissingClosing,
		},
		{
			name:    "closing delimiter without trailing newline",
			input:   "---\ntitle: x\n---",
			wantErr: ErrMissingClosing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, body, err := Split([]byte(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBlock, block)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestParse_ProgramPage(t *testing.T) {
	doc, err := Parse([]byte(programPage))
	require.NoError(t, err)
	assert.True(t, doc.Valid(), "problems: %v", doc.Problems)

	keys := make([]string, 0)
	for _, f := range doc.Fields() {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		"language", "title", "slug", "id", "component", "public",
		"program_order", "schedule", "talent", "social", "logo",
	}, keys)

	public, ok := doc.Get("public")
	require.True(t, ok)
	b, isBool := public.Bool()
	assert.True(t, isBool)
	assert.True(t, b)

	order, _ := doc.Get("program_order")
	n, isInt := order.Int()
	assert.True(t, isInt)
	assert.Equal(t, int64(3), n)

	schedule, _ := doc.Get("schedule")
	assert.Equal(t, KindString, schedule.Kind)
	assert.True(t, schedule.Quoted)
	assert.Equal(t, "Viernes 22:00", schedule.String())

	social, _ := doc.Get("social")
	arr, isArr := social.Array()
	assert.True(t, isArr)
	assert.Equal(t, []any{"https://instagram.com/noches"}, arr)

	assert.Equal(t, 3, doc.LineOf("language"))
	assert.Equal(t, 0, doc.LineOf("missing"))
	assert.Equal(t, "Body text.\n", doc.Body)
}

func TestParse_Problems(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		wantCode Code
		wantLine int
	}{
		{"missing colon", "title My Show", CodeMissingColon, 2},
		{"key starts with digit", "1title: x", CodeInvalidKey, 2},
		{"key with dash", "audio-source: x", CodeInvalidKey, 2},
		{"empty key", ": value", CodeInvalidKey, 2},
		{"duplicate key", "title: a\ntitle: b", CodeDuplicateKey, 3},
		{"invalid array", "tags: [one, two]", CodeInvalidArray, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte("---\n" + tt.block + "\n---\n"))
			require.NoError(t, err)
			require.Len(t, doc.Problems, 1)
			assert.Equal(t, tt.wantCode, doc.Problems[0].Code)
			assert.Equal(t, tt.wantLine, doc.Problems[0].Line)
		})
	}
}

func TestParse_KeepsFirstDuplicate(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: a\ntitle: b\n---\n"))
	require.NoError(t, err)

	v, ok := doc.Get("title")
	require.True(t, ok)
	assert.Equal(t, "a", v.String())
	assert.Equal(t, "a", doc.Map()["title"])
}

func TestRender_FixedPoint(t *testing.T) {
	inputs := []string{
		programPage,
		"---\n---\n",
		"---\n---\nbody only\n",
		"---\ntitle: x\n\n---\n",
		"---\nempty:\n---\n",
	}

	for _, input := range inputs {
		doc, err := Parse([]byte(input))
		require.NoError(t, err)

		rendered := doc.Render()
		assert.Equal(t, input, string(rendered), "canonical input should render unchanged")

		again, err := Parse(rendered)
		require.NoError(t, err)
		assert.Equal(t, doc.Map(), again.Map())
		assert.Equal(t, rendered, again.Render())
	}
}

func TestRender_Canonicalizes(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle:   My Show  \nlogo:/a.png\nempty:   \n# note   \n---\n"))
	require.NoError(t, err)

	assert.Equal(t, "---\ntitle: My Show\nlogo: /a.png\nempty:\n# note\n---\n", string(doc.Render()))
}
