// Package catalog holds the pure, in-memory views over a loaded design
// snapshot: search and category filtering, category facets and price display.
package catalog

import (
	"fmt"
	"strings"

	"github.com/bally3399/chord001-monograms/internal/domain"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

// Filter selects designs by search term and category.
type Filter struct {
	Term     string
	Category string
}

// Matches reports whether d passes the filter. The term matches
// case-insensitively against title, description and category; the
// category must match exactly unless it is empty or CategoryAll.
func (f Filter) Matches(d domain.Design) bool {
	if term := strings.ToLower(f.Term); term != "" {
		if !strings.Contains(strings.ToLower(d.Title), term) &&
			!strings.Contains(strings.ToLower(d.Description), term) &&
			!strings.Contains(strings.ToLower(d.Category), term) {
			return false
		}
	}
	if f.Category != "" && f.Category != CategoryAll && d.Category != f.Category {
		return false
	}
	return true
}

// Result is a filtered view of a snapshot.
type Result struct {
	Designs []domain.Design
	Total   int
}

// Summary renders the "Showing X of Y designs" line.
func (r Result) Summary() string {
	return fmt.Sprintf("Showing %d of %d designs", len(r.Designs), r.Total)
}

// Apply filters designs, preserving their order.
func Apply(designs []domain.Design, f Filter) Result {
	out := make([]domain.Design, 0, len(designs))
	for _, d := range designs {
		if f.Matches(d) {
			out = append(out, d)
		}
	}
	return Result{Designs: out, Total: len(designs)}
}

// Facets returns the distinct non-empty categories in first-seen order.
func Facets(designs []domain.Design) []string {
	seen := make(map[string]struct{})
	facets := []string{}
	for _, d := range designs {
		if d.Category == "" {
			continue
		}
		if _, ok := seen[d.Category]; ok {
			continue
		}
		seen[d.Category] = struct{}{}
		facets = append(facets, d.Category)
	}
	return facets
}

// FormatPrice renders cents as "$12.50", or "N/A" when there is no price.
func FormatPrice(cents *int64) string {
	if cents == nil {
		return "N/A"
	}
	return FormatCents(*cents)
}

// FormatCents renders an amount of cents as dollars.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
