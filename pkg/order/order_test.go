package order

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	lines := []string{
		"# header",
		"",
		"  winter  ",
		"spring",
		"# winter again below",
		"winter",
		"\t",
		"summer",
	}

	assert.Equal(t, []string{"winter", "spring", "summer"}, Parse(lines))
	assert.Equal(t, []string{}, Parse(nil))
}

func TestCreate(t *testing.T) {
	lines, slugs := Create([]string{"c", "a", "b", "a"})

	assert.Equal(t, []string{"a", "b", "c"}, slugs)
	assert.Equal(t, Header, lines[:len(Header)])
	assert.Equal(t, []string{"a", "b", "c"}, lines[len(Header):])
}

func TestMergeAppendsMissing(t *testing.T) {
	lines := []string{"c", "a"}

	merged, slugs, changed := Merge(lines, []string{"a", "b", "c"})

	assert.True(t, changed)
	assert.Equal(t, []string{"c", "a", "b"}, slugs)
	assert.Equal(t, []string{"c", "a", "", AddedMarker, "b"}, merged)
}

func TestMergeNoBlankLineWhenFileEndsBlank(t *testing.T) {
	lines := []string{"c", ""}

	merged, _, _ := Merge(lines, []string{"c", "d"})
	assert.Equal(t, []string{"c", "", AddedMarker, "d"}, merged)
}

func TestMergeSortsAppendedSlugs(t *testing.T) {
	_, slugs, _ := Merge([]string{"m"}, []string{"z", "m", "b", "k"})
	assert.Equal(t, []string{"m", "b", "k", "z"}, slugs)
}

func TestMergeKeepsUnknownSlugs(t *testing.T) {
	lines := []string{"gone", "a"}

	merged, slugs, changed := Merge(lines, []string{"a"})

	assert.False(t, changed)
	assert.Equal(t, lines, merged)
	assert.Equal(t, []string{"gone", "a"}, slugs)
	assert.Equal(t, []string{"gone"}, Unknown(slugs, []string{"a"}))
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	lines := make([]string, 1, 8)
	lines[0] = "a"

	merged, _, _ := Merge(lines, []string{"a", "b"})
	merged[0] = "changed"

	assert.Equal(t, "a", lines[0])
}

func TestMergeDeduplicatesFirstWins(t *testing.T) {
	_, slugs, _ := Merge([]string{"b", "a", "b"}, []string{"a", "b"})
	assert.Equal(t, []string{"b", "a"}, slugs)
}

func orderLine() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.StringMatching(`[a-f]{1,2}`),
		rapid.StringMatching(` [a-f] `),
		rapid.Just(""),
		rapid.Just("# comment"),
	)
}

func TestMergeIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOf(orderLine()).Draw(t, "lines")
		discovered := rapid.SliceOf(rapid.StringMatching(`[a-f]{1,2}`)).Draw(t, "discovered")

		once, order1, _ := Merge(lines, discovered)
		twice, order2, changed := Merge(once, discovered)

		if changed {
			t.Fatalf("second merge changed the file: %q -> %q", once, twice)
		}
		assert.Equal(t, once, twice)
		assert.Equal(t, order1, order2)
	})
}

func TestMergeOnlyAppends(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOf(orderLine()).Draw(t, "lines")
		discovered := rapid.SliceOf(rapid.StringMatching(`[a-f]{1,2}`)).Draw(t, "discovered")

		before := Parse(lines)
		merged, slugs, _ := Merge(lines, discovered)

		if !slices.Equal(before, slugs[:len(before)]) {
			t.Fatalf("persisted slugs were reordered: %q -> %q", before, slugs)
		}
		if !slices.Equal(lines, merged[:len(lines)]) {
			t.Fatalf("persisted lines were modified: %q -> %q", lines, merged)
		}
		assert.Equal(t, slugs, Parse(merged))

		listed := make(map[string]bool, len(slugs))
		for _, s := range slugs {
			listed[s] = true
		}
		for _, d := range discovered {
			if !listed[d] {
				t.Fatalf("discovered slug %q missing from order %q", d, slugs)
			}
		}
	})
}
