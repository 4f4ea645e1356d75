package l10n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryMatches(t *testing.T) {
	shared, ok := DefaultCategories().Lookup(CategorySharedCode)
	require.True(t, ok)

	assert.True(t, shared.Matches("Foo/SharedCode/Localizable.strings"))
	assert.False(t, shared.Matches("Foo/Bar/Localizable.strings"))
	assert.False(t, shared.Matches("Foo/sharedcode/Localizable.strings"), "match is case-sensitive")
	assert.False(t, shared.Matches("Foo/SharedCodeKit/Localizable.strings"), "match is per segment")
}

func TestCategoryMatches_EmptySegment(t *testing.T) {
	c := Category{Name: "none"}
	assert.False(t, c.Matches("a//b"))
}

func TestCategoriesMatch_Multiple(t *testing.T) {
	got := DefaultCategories().Match("App/Local/SmartCard/en.lproj/Localizable.strings")
	require.Len(t, got, 2)
	assert.Equal(t, CategoryLocal, got[0].Name)
	assert.Equal(t, CategorySmartCard, got[1].Name)

	assert.Empty(t, DefaultCategories().Match("App/Other/Localizable.strings"))
}

func TestCategoriesMerge(t *testing.T) {
	extra := Categories{
		{Name: CategoryLocal, Segment: "Local", Hint: "custom"},
		{Name: "Payments", Segment: "Payments", Hint: "pay"},
	}
	merged := DefaultCategories().Merge(extra)

	require.Len(t, merged, 5)
	assert.Equal(t, "custom", merged[1].Hint)
	assert.Equal(t, "Payments", merged[4].Name)
	// The receiver is left untouched.
	assert.NotEqual(t, "custom", DefaultCategories()[1].Hint)
}

func TestIsTranslationFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"Foo/Localizable.strings", true},
		{"Foo/en.lproj/Localizable.strings", true},
		{"Foo/LocalizableExtra.strings", true},
		{"Foo/Other.strings", false},
		{"Foo/Localizable.txt", false},
		{"Foo/Localizable.stringsdict", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTranslationFile(tt.path), tt.path)
	}
}
