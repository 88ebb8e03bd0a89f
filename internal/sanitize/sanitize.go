// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize cleans provider-supplied description markup before it is
// rendered as HTML.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	strict = bluemonday.StrictPolicy()

	blockBreaks = strings.NewReplacer("</p>", "\n\n", "<br>", "\n", "<br/>", "\n", "</li>", "\n")
)

// Policy returns the shared description policy. It allows paragraph,
// emphasis, and list markup plus http(s) links, which are rewritten to
// open in a new tab without a referrer. Script, style, iframe, and object
// elements are removed along with their content. Any other element is
// unwrapped and its text kept; embed is void so unwrapping removes it.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "br", "strong", "em", "b", "i", "u", "ul", "ol", "li")
		p.AllowAttrs("href").OnElements("a")
		p.AllowURLSchemes("http", "https")
		p.AllowRelativeURLs(false)
		p.RequireParseableURLs(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		p.RequireNoReferrerOnFullyQualifiedLinks(true)
		p.SkipElementsContent("script", "style", "iframe", "object")
		policy = p
	})
	return policy
}

// Description returns raw with every disallowed element and attribute
// removed. Blank input yields "".
func Description(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return strings.TrimSpace(Policy().Sanitize(raw))
}

// PlainText strips all markup from s for terminal output. Paragraph, line,
// and list item ends become newlines.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	text := html.UnescapeString(strict.Sanitize(blockBreaks.Replace(s)))
	return strings.TrimSpace(text)
}
