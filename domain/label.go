package domain

import "strings"

// Page holds the extracted text of one manifest page.
type Page struct {
	Lines []string
}

// Tokens returns the whitespace-split tokens of the page's joined text.
func (p Page) Tokens() []string {
	return strings.Fields(strings.Join(p.Lines, " "))
}

// Document is a loaded label manifest: one page per printable label.
// Immutable once loaded; a new fetch replaces it wholesale. Path points
// at the temp file the manifest was written to, used for page extraction.
type Document struct {
	Path  string
	Pages []Page
}

// PageCount returns the number of pages in the manifest.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// PageRef points at a single manifest page (zero-based).
type PageRef struct {
	Index int
}

// Number returns the human-facing one-based page number.
func (r PageRef) Number() int {
	return r.Index + 1
}
