// Package markdown renders article content to sanitized HTML.
package markdown

import (
	"strings"

	"github.com/dalemusser/ideahub/internal/app/system/htmlsanitize"
	"gitlab.com/golang-commonmark/markdown"
)

var md = markdown.New(
	markdown.HTML(true),
	markdown.Linkify(true),
	markdown.Typographer(true),
	markdown.Tables(true),
	markdown.MaxNesting(10),
)

// ToHTML renders CommonMark source. Raw HTML in the source is allowed by
// the parser and cleaned by htmlsanitize afterwards.
func ToHTML(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	return htmlsanitize.Sanitize(md.RenderToString([]byte(src)))
}
