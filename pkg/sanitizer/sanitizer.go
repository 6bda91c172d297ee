// Package sanitizer normalizes free-text input before validation and
// storage. Keys that must round-trip exactly (package and add-on keys) are
// never run through it.
package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reControl    = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return reWhitespace.ReplaceAllString(s, " ")
}

func stripControl(s string) string {
	return reControl.ReplaceAllString(s, "")
}

// CleanText trims, strips control characters and collapses runs of
// whitespace. Used for names, descriptions, rules and location fields.
func CleanText(input string) string {
	p := Pipeline{stripControl, collapseWhitespace, trim}
	return p.Apply(input)
}

// CleanSlice applies a strategy to every element, dropping empties and
// duplicates while preserving order.
func CleanSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
