package domain

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is an asset category code with its display label
type Category struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// CategorySet is the ordered list of accepted asset categories
type CategorySet []Category

// DefaultCategories is used when no override is configured
var DefaultCategories = CategorySet{
	{Code: "SAVINGS", Label: "Savings"},
	{Code: "INVESTMENTS", Label: "Investments"},
	{Code: "PROPERTY", Label: "Property"},
	{Code: "OTHER_ASSETS", Label: "Other Assets"},
}

// ParseCategories reads a "CODE:Label,CODE:Label" list. An empty string
// yields DefaultCategories; a missing label falls back to the code.
func ParseCategories(s string) (CategorySet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCategories, nil
	}
	var set CategorySet
	for _, part := range strings.Split(s, ",") {
		code, label, _ := strings.Cut(strings.TrimSpace(part), ":")
		var err error
		if set, err = set.with(code, label); err != nil {
			return nil, fmt.Errorf("%w in %q", err, s)
		}
	}
	return set, nil
}

// LoadCategoriesFile reads a YAML document of the form
//
//	categories:
//	  - code: SAVINGS
//	    label: Savings
func LoadCategoriesFile(path string) (CategorySet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse categories %s: %w", path, err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("no categories in %s", path)
	}
	var set CategorySet
	for _, c := range doc.Categories {
		if set, err = set.with(c.Code, c.Label); err != nil {
			return nil, fmt.Errorf("%w in %s", err, path)
		}
	}
	return set, nil
}

// with returns s plus a normalised category, rejecting empty, overlong and
// duplicate codes
func (s CategorySet) with(code, label string) (CategorySet, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	label = strings.TrimSpace(label)
	switch {
	case code == "":
		return nil, errors.New("empty category code")
	case len(code) > 20:
		return nil, fmt.Errorf("category code %q longer than 20 characters", code)
	case s.Contains(code):
		return nil, fmt.Errorf("duplicate category code %q", code)
	}
	if label == "" {
		label = code
	}
	return append(s, Category{Code: code, Label: label}), nil
}

// Contains reports whether code is an accepted category
func (s CategorySet) Contains(code string) bool {
	_, ok := s.Lookup(code)
	return ok
}

// Lookup finds the category for code
func (s CategorySet) Lookup(code string) (Category, bool) {
	for _, c := range s {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}

// Label returns the display label for code, or the code itself when unknown
func (s CategorySet) Label(code string) string {
	if c, ok := s.Lookup(code); ok {
		return c.Label
	}
	return code
}

// Codes lists the accepted codes in order
func (s CategorySet) Codes() []string {
	codes := make([]string, len(s))
	for i, c := range s {
		codes[i] = c.Code
	}
	return codes
}
