// Package slug derives URL-safe identifiers from product names, category names and
// blog post titles. The three transforms are deliberately different; none of them is
// guaranteed unique and only the product one has a (lossy) reverse.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRun   = regexp.MustCompile(`[^a-z0-9]+`)
	whitespace    = regexp.MustCompile(`\s+`)
	notWordOrDash = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// Slugify lowercases text, collapses every run of characters outside [a-z0-9] into a
// single hyphen and trims hyphens from both ends. Used for blog post slugs.
func Slugify(text string) string {
	s := nonAlnumRun.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}

// Product is the routing slug of a product name: lowercase, whitespace runs become a
// hyphen, anything outside [A-Za-z0-9_-] is dropped.
func Product(name string) string {
	s := whitespace.ReplaceAllString(strings.ToLower(name), "-")
	return notWordOrDash.ReplaceAllString(s, "")
}

// NameFromProductSlug turns a product slug back into a name candidate by replacing
// hyphens with spaces. Punctuation removed by Product cannot be recovered.
func NameFromProductSlug(s string) string {
	return strings.ReplaceAll(s, "-", " ")
}

// Category lowercases name and replaces whitespace runs with a hyphen. Punctuation is kept.
func Category(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}
