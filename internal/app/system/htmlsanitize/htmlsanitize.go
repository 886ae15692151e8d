// Package htmlsanitize strips unsafe markup from rendered article HTML.
package htmlsanitize

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

// Policy returns the shared sanitization policy: user-generated content
// rules plus table alignment, code language classes and lazy images.
func Policy() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("align").OnElements("td", "th")
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[a-zA-Z0-9_+-]+$`)).OnElements("code")
		p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Sanitize returns s with scripts, event handlers and unsafe URLs removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return Policy().Sanitize(s)
}
