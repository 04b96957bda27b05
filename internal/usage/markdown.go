package usage

import (
	"strings"

	"github.com/harrison/unusedres/internal/models"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdownExtensions = []string{".md", ".markdown"}

func isMarkdown(name string) bool {
	for _, m := range markdownExtensions {
		if models.HasFileSuffix(name, m) {
			return true
		}
	}
	return false
}

var markdownParser = goldmark.New()

// MarkdownReferences returns the destinations of every image and link in a
// Markdown document, in document order. Remote URLs are dropped.
func MarkdownReferences(source []byte) []string {
	doc := markdownParser.Parser().Parse(text.NewReader(source))

	var refs []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var dest []byte
		switch node := n.(type) {
		case *ast.Image:
			dest = node.Destination
		case *ast.Link:
			dest = node.Destination
		default:
			return ast.WalkContinue, nil
		}

		ref := string(dest)
		if ref == "" || strings.Contains(ref, "://") || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "mailto:") {
			return ast.WalkContinue, nil
		}
		// Drop query and fragment.
		if i := strings.IndexAny(ref, "?#"); i >= 0 {
			ref = ref[:i]
		}
		refs = append(refs, ref)
		return ast.WalkContinue, nil
	})
	return refs
}
