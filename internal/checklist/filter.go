package checklist

import (
	"strings"

	"github.com/obratrack/obratrack/internal/model"
)

// FilterAll is the sentinel value for a dimension with no filtering.
const FilterAll = "all"

// Filter selects checklists for list views. Search matches
// case-insensitively against title, category, responsible name, and site
// name (OR across fields); the remaining dimensions are exact-match, with
// an empty value or FilterAll acting as pass-through. Dimensions combine
// with AND.
type Filter struct {
	Search        string
	Category      string
	Status        string
	SiteID        string
	ResponsibleID string
}

// Match reports whether the checklist passes every filter dimension.
func (f Filter) Match(c model.Checklist) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Category), q) &&
			!strings.Contains(strings.ToLower(c.ResponsibleName), q) &&
			!strings.Contains(strings.ToLower(c.SiteName), q) {
			return false
		}
	}
	if !passThrough(f.Category) && !strings.EqualFold(c.Category, f.Category) {
		return false
	}
	if !passThrough(f.Status) && c.Status != f.Status {
		return false
	}
	if !passThrough(f.SiteID) && c.SiteID != f.SiteID {
		return false
	}
	if !passThrough(f.ResponsibleID) && c.ResponsibleID != f.ResponsibleID {
		return false
	}
	return true
}

// Apply filters the collection, preserving insertion order.
func (f Filter) Apply(checklists []model.Checklist) []model.Checklist {
	var out []model.Checklist
	for _, c := range checklists {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

func passThrough(v string) bool {
	return v == "" || v == FilterAll
}
