// Package fix rewrites frontmatter blocks into canonical form.
//
// Fixes are mechanical and safe to apply twice: the output of Fix is always a
// fixed point of Fix.
package fix

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/colonyops/fmguard/internal/core/drive"
	"github.com/colonyops/fmguard/internal/core/frontmatter"
)

// Rule names the fix that produced a change.
type Rule string

const (
	RuleLineEndings Rule = "line_endings"
	RuleDelimiter   Rule = "delimiter"
	RuleSpacing     Rule = "spacing"
	RuleBooleanCase Rule = "boolean_case"
	RuleDriveURL    Rule = "drive_url"
)

// Change is one applied fix. Line is 0 for whole-file fixes.
type Change struct {
	Line        int    `json:"line,omitempty"`
	Rule        Rule   `json:"rule"`
	Before      string `json:"before,omitempty"`
	After       string `json:"after,omitempty"`
	Description string `json:"description"`
}

func (c Change) String() string {
	if c.Line > 0 {
		return fmt.Sprintf("Line %d: %s", c.Line, c.Description)
	}
	return c.Description
}

// Outcome is the result of fixing one file. When Err is set (a delimiter is
// missing) Content is the untouched input and Changes is empty.
type Outcome struct {
	Content   []byte                `json:"-"`
	Changes   []Change              `json:"changes"`
	Unfixable []frontmatter.Problem `json:"unfixable,omitempty"`
	Err       error                 `json:"-"`
}

// Changed reports whether any fix was applied.
func (o Outcome) Changed() bool {
	return len(o.Changes) > 0
}

// Options control the optional rules.
type Options struct {
	RewriteDrive     bool
	MinDriveIDLength int
}

// Fixer applies the rule table to file contents.
type Fixer struct {
	opts Options
}

func New(opts Options) *Fixer {
	return &Fixer{opts: opts}
}

// Fix rewrites content. It never fails outright; a file that cannot be
// located as frontmatter comes back unchanged with Outcome.Err set.
func (f *Fixer) Fix(content []byte) Outcome {
	var changes []Change

	norm := frontmatter.Normalize(content)
	if !bytes.Equal(norm, content) {
		changes = append(changes, Change{
			Rule:        RuleLineEndings,
			Description: "normalized line endings to LF",
		})
	}

	lines := strings.Split(string(norm), "\n")

	if strings.TrimRight(lines[0], " \t") != frontmatter.Delimiter {
		return Outcome{Content: content, Err: frontmatter.ErrMissingOpening}
	}
	if lines[0] != frontmatter.Delimiter {
		changes = append(changes, delimiterChange(1, lines[0], "normalized opening delimiter"))
		lines[0] = frontmatter.Delimiter
	}

	closeIdx := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == frontmatter.Delimiter {
			closeIdx = i
			break
		}
	}
	if closeIdx < 0 {
		return Outcome{Content: content, Err: frontmatter.ErrMissingClosing}
	}
	if lines[closeIdx] != frontmatter.Delimiter {
		changes = append(changes, delimiterChange(closeIdx+1, lines[closeIdx], "normalized closing delimiter"))
		lines[closeIdx] = frontmatter.Delimiter
	}
	if closeIdx == len(lines)-1 {
		changes = append(changes, Change{
			Line:        closeIdx + 1,
			Rule:        RuleDelimiter,
			Description: "added newline after closing delimiter",
		})
		lines = append(lines, "")
	}

	doc, err := frontmatter.Parse([]byte(strings.Join(lines, "\n")))
	if err != nil {
		// unreachable once both delimiters are canonical
		return Outcome{Content: content, Err: err}
	}

	for i, line := range doc.Lines {
		fixed, lineChanges := f.fixLine(line)
		doc.Lines[i] = fixed
		changes = append(changes, lineChanges...)
	}

	return Outcome{
		Content:   doc.Render(),
		Changes:   changes,
		Unfixable: doc.Problems,
	}
}

func delimiterChange(line int, before, desc string) Change {
	return Change{
		Line:        line,
		Rule:        RuleDelimiter,
		Before:      before,
		After:       frontmatter.Delimiter,
		Description: desc,
	}
}

// fixLine applies the per-line rules in order: spacing, boolean case, Drive
// rewrite. Each rule that changes the line records its own Change.
func (f *Fixer) fixLine(line frontmatter.Line) (frontmatter.Line, []Change) {
	var changes []Change

	record := func(rule Rule, after, desc string) {
		changes = append(changes, Change{
			Line:        line.Number,
			Rule:        rule,
			Before:      line.Text,
			After:       after,
			Description: desc,
		})
		line.Text = after
	}

	switch line.Kind {
	case frontmatter.LineBlank, frontmatter.LineComment:
		if canon := frontmatter.RenderLine(line); canon != line.Text {
			record(RuleSpacing, canon, "trimmed trailing whitespace")
		}
		return line, changes
	case frontmatter.LineInvalid:
		return line, nil
	}

	if canon := frontmatter.RenderLine(line); canon != line.Text {
		record(RuleSpacing, canon, fmt.Sprintf("normalized spacing for %q", line.Key))
	}

	if raw, ok := lowerBoolean(line.Value); ok {
		old := line.Value.Raw
		line.Value, _ = frontmatter.ParseValue(raw)
		record(RuleBooleanCase, frontmatter.RenderLine(line),
			fmt.Sprintf("lowercased boolean %q (%s -> %s)", line.Key, old, raw))
	}

	if line.Key == "audio_source" && f.opts.RewriteDrive && !line.Value.IsEmpty() {
		if url, changed := drive.Rewrite(line.Value.String(), f.opts.MinDriveIDLength); changed {
			raw := url
			if line.Value.Quoted {
				q := line.Value.Raw[:1]
				raw = q + url + q
			}
			line.Value, _ = frontmatter.ParseValue(raw)
			record(RuleDriveURL, frontmatter.RenderLine(line), "rewrote audio_source to a direct download link")
		}
	}

	return line, changes
}

func lowerBoolean(v frontmatter.Value) (string, bool) {
	if v.Quoted || v.Kind == frontmatter.KindBool {
		return "", false
	}
	lower := strings.ToLower(v.Raw)
	if lower != "true" && lower != "false" {
		return "", false
	}
	return lower, true
}
