package l10n

import (
	"path/filepath"
	"strings"
)

// Category is a product area identified by a path segment.
type Category struct {
	Name    string `yaml:"name" json:"name"`
	Segment string `yaml:"segment" json:"segment"`
	Hint    string `yaml:"hint" json:"hint"`
}

// Matches reports whether any segment of path equals c.Segment exactly.
// Matching is case-sensitive.
func (c Category) Matches(path string) bool {
	if c.Segment == "" {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == c.Segment {
			return true
		}
	}
	return false
}

// Categories is an ordered set of category definitions.
type Categories []Category

// Match returns every category whose segment appears in path, in definition order.
func (cs Categories) Match(path string) []Category {
	var out []Category
	for _, c := range cs {
		if c.Matches(path) {
			out = append(out, c)
		}
	}
	return out
}

// Lookup returns the category with the given name.
func (cs Categories) Lookup(name string) (Category, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Merge returns cs with extra appended. A definition in extra replaces the
// one in cs with the same name, keeping its position.
func (cs Categories) Merge(extra Categories) Categories {
	out := make(Categories, len(cs), len(cs)+len(extra))
	copy(out, cs)
	for _, e := range extra {
		replaced := false
		for i := range out {
			if out[i].Name == e.Name {
				out[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	return out
}

// Built-in category names.
const (
	CategorySharedCode = "SharedCode"
	CategoryLocal      = "Local"
	CategorySmartCard  = "SmartCard"
	CategoryDreamTrip  = "DreamTrip"
)

// DefaultCategories returns the built-in categories with their upload hints.
func DefaultCategories() Categories {
	return Categories{
		{Name: CategorySharedCode, Segment: CategorySharedCode, Hint: "`bundle exec fastlane post_translations infrastructure:SharedCode`"},
		{Name: CategoryLocal, Segment: CategoryLocal, Hint: "`bundle exec fastlane post_translations feature:Local`"},
		{Name: CategorySmartCard, Segment: CategorySmartCard, Hint: "`bundle exec fastlane post_translations feature:SmartCard`"},
		{Name: CategoryDreamTrip, Segment: CategoryDreamTrip, Hint: "`bundle exec fastlane post_translations project:DreamTrip`"},
	}
}

// IsTranslationFile reports whether path names a Localizable .strings file.
func IsTranslationFile(path string) bool {
	return strings.HasSuffix(path, ".strings") && strings.Contains(path, "Localizable")
}
