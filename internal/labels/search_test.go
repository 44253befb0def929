package labels

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/woodline/shopterm/domain"
)

func doc(pages ...domain.Page) *domain.Document {
	return &domain.Document{Pages: pages}
}

func page(lines ...string) domain.Page {
	return domain.Page{Lines: lines}
}

func TestFindExactFirstPageWins(t *testing.T) {
	d := doc(
		page("some header"),
		page("12-345 678"),
		page("unrelated"),
		page("unrelated"),
		page("12-345"),
	)

	ref, ok := FindExact(d, "12-345")
	require.True(t, ok)
	require.Equal(t, 1, ref.Index)
}

func TestFindExactIgnoresNonOrderLines(t *testing.T) {
	// only lines of digits, hyphens and spaces qualify
	d := doc(page("order 12-345", "abc12-345"))
	_, ok := FindExact(d, "12-345")
	require.False(t, ok)
}

func TestFindExactIsCaseInsensitiveOnToken(t *testing.T) {
	d := doc(page("12-345 67"))
	ref, ok := FindExact(d, "12-345")
	require.True(t, ok)
	require.Equal(t, 0, ref.Index)
}

func TestFindPrefersExactOverFuzzy(t *testing.T) {
	// the fuzzy heuristic would match page 0; exact match sits on page 1
	d := doc(
		page("55-00 9999", "1234"),
		page("55-001234"),
	)

	ref, ok := Find(d, "55-001234")
	require.True(t, ok)
	require.Equal(t, 1, ref.Index)
}

func TestFindFuzzyMatchesShortPartAndSuffix(t *testing.T) {
	d := doc(
		page("nothing relevant"),
		page("label ab1 rest", "code 1234 here"),
	)

	ref, ok := FindFuzzy(d, "AB1234")
	require.True(t, ok)
	require.Equal(t, 1, ref.Index)
}

func TestFindFuzzySkipsPageWithoutSuffixToken(t *testing.T) {
	d := doc(
		// short part present, but no standalone 4-char suffix token
		page("label AB1 rest", "code 123456 here"),
	)

	_, ok := FindFuzzy(d, "AB1234")
	require.False(t, ok)
}

func TestFindFuzzyRequiresQueryLongerThanSuffix(t *testing.T) {
	d := doc(page("1234"))
	_, ok := FindFuzzy(d, "1234")
	require.False(t, ok)
}

func TestFindFuzzyReturnsFirstPageInOrder(t *testing.T) {
	d := doc(
		page("AB1 no suffix here 12345"),
		page("AB1 1234"),
		page("AB1 1234"),
	)

	ref, ok := FindFuzzy(d, "AB1234")
	require.True(t, ok)
	require.Equal(t, 1, ref.Index)
}

func TestFindNotFound(t *testing.T) {
	d := doc(page("77-001"), page("77-002"))
	_, ok := Find(d, "77-003")
	require.False(t, ok)
}
