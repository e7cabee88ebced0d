// Package sanitize cleans lead-provided text before it is stored in CRM
// records or dispatched to messaging brokers.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`[ \t]{2,}`)
)

// Text strips HTML tags and decodes the common entities so encoded tags
// cannot survive a single decode pass. Campaign editors paste rich text;
// only plain text may reach the brokers.
func Text(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Name cleans a contact name: tags stripped, runs of spaces collapsed.
func Name(s string) string {
	return whitespaceRegex.ReplaceAllString(Text(s), " ")
}
