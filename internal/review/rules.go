package review

import (
	"fmt"
	"os"

	"github.com/dshills/locguard/internal/l10n"
	"gopkg.in/yaml.v3"
)

// Rules represents a category rules pack loaded from --rules.
type Rules struct {
	Banner          string          `yaml:"banner,omitempty"`
	ReplaceDefaults bool            `yaml:"replaceDefaults,omitempty"`
	Categories      l10n.Categories `yaml:"categories,omitempty"`
}

// LoadRules loads a rules file from disk. Returns nil Rules and nil error if path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}
	for i, c := range rules.Categories {
		if c.Name == "" || c.Segment == "" {
			return nil, fmt.Errorf("rules file: category %d needs both name and segment", i+1)
		}
	}
	return &rules, nil
}

// ApplyRules returns opts with the categories and banner from rules layered
// on top. A nil rules pack leaves opts unchanged apart from filling defaults.
func ApplyRules(opts Options, rules *Rules) Options {
	if opts.Categories == nil {
		opts.Categories = l10n.DefaultCategories()
	}
	if opts.Banner == "" {
		opts.Banner = DefaultBanner
	}
	if rules == nil {
		return opts
	}
	if rules.ReplaceDefaults {
		opts.Categories = append(make(l10n.Categories, 0, len(rules.Categories)), rules.Categories...)
	} else {
		opts.Categories = opts.Categories.Merge(rules.Categories)
	}
	if rules.Banner != "" {
		opts.Banner = rules.Banner
	}
	return opts
}
