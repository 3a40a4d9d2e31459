package view

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	copyPolicyOnce sync.Once
	copyPolicy     *bluemonday.Policy
)

// sanitizeCopy cleans schema-provided copy (intro, hints) that the page
// renders as HTML. Only inline formatting and http(s)/mailto links survive.
func sanitizeCopy(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(copySanitizer().Sanitize(trimmed))
}

func copySanitizer() *bluemonday.Policy {
	copyPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "em", "i", "br", "code", "small")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowURLSchemes("http", "https", "mailto")
		policy.RequireParseableURLs(true)
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		copyPolicy = policy
	})
	return copyPolicy
}
