package labels

import (
	"regexp"
	"strings"

	"github.com/woodline/shopterm/domain"
)

// Order identifiers on labels consist of digits, hyphens and spaces only.
var orderLinePattern = regexp.MustCompile(`^[0-9\- ]+$`)

// fuzzySuffixLen is the length of the checksum-like tail used when a
// truncated or reformatted identifier defeats the exact search.
const fuzzySuffixLen = 4

// Find resolves an order number to a manifest page. Exact search always
// takes precedence; the fuzzy fallback only runs for queries longer than
// the suffix. Absence of both means the order is not in the manifest.
func Find(doc *domain.Document, orderNumber string) (domain.PageRef, bool) {
	if ref, ok := FindExact(doc, orderNumber); ok {
		return ref, true
	}
	return FindFuzzy(doc, orderNumber)
}

// FindExact scans pages in order for a line of digits/hyphens/spaces
// whose token before the first space equals the query case-insensitively.
// The first matching page wins.
func FindExact(doc *domain.Document, orderNumber string) (domain.PageRef, bool) {
	if doc == nil || orderNumber == "" {
		return domain.PageRef{}, false
	}
	for i, page := range doc.Pages {
		for _, raw := range page.Lines {
			line := strings.TrimSpace(raw)
			if !orderLinePattern.MatchString(line) {
				continue
			}
			token := line
			if idx := strings.IndexByte(line, ' '); idx >= 0 {
				token = line[:idx]
			}
			if strings.EqualFold(token, orderNumber) {
				return domain.PageRef{Index: i}, true
			}
		}
	}
	return domain.PageRef{}, false
}

// FindFuzzy splits the query into a short part and a 4-character suffix,
// collects the pages whose text contains the short part, and returns the
// first of them holding a standalone 4-character token equal to the
// suffix. A heuristic, not a guaranteed-unique match; first hit wins.
func FindFuzzy(doc *domain.Document, orderNumber string) (domain.PageRef, bool) {
	if doc == nil || len(orderNumber) <= fuzzySuffixLen {
		return domain.PageRef{}, false
	}

	short := strings.ToLower(orderNumber[:len(orderNumber)-fuzzySuffixLen])
	suffix := orderNumber[len(orderNumber)-fuzzySuffixLen:]

	for i, page := range doc.Pages {
		if !pageContains(page, short) {
			continue
		}
		for _, token := range page.Tokens() {
			if len(token) == fuzzySuffixLen && strings.EqualFold(token, suffix) {
				return domain.PageRef{Index: i}, true
			}
		}
	}
	return domain.PageRef{}, false
}

func pageContains(page domain.Page, loweredNeedle string) bool {
	for _, line := range page.Lines {
		if strings.Contains(strings.ToLower(line), loweredNeedle) {
			return true
		}
	}
	return false
}
