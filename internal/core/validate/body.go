package validate

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// BodyStats summarizes the markdown after the frontmatter block.
type BodyStats struct {
	Blocks   int // top level blocks, raw HTML blocks excluded
	H1       int
	Headings int
}

var markdown = goldmark.New()

// InspectBody parses body with goldmark and counts its content blocks.
func InspectBody(body string) BodyStats {
	var stats BodyStats

	src := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == ast.KindHTMLBlock {
			continue
		}
		stats.Blocks++
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			stats.Headings++
			if h.Level == 1 {
				stats.H1++
			}
		}
		return ast.WalkContinue, nil
	})

	return stats
}
