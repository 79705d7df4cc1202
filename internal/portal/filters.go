package portal

import (
	"sort"
	"strings"

	"github.com/noah-isme/course-portal/internal/models"
)

// AllCategories selects every department.
const AllCategories = "All"

// SuggestionLimit caps the live-typing dropdown.
const SuggestionLimit = 5

// FilterByCategory keeps courses whose department equals category exactly.
// AllCategories returns list unchanged.
func FilterByCategory(list []models.Course, category string) []models.Course {
	if category == AllCategories {
		return list
	}
	out := make([]models.Course, 0, len(list))
	for _, c := range list {
		if c.Dept == category {
			out = append(out, c)
		}
	}
	return out
}

// SearchByTitle keeps courses whose title contains query, ignoring case. An
// empty query returns list unchanged.
func SearchByTitle(list []models.Course, query string) []models.Course {
	if query == "" {
		return list
	}
	needle := strings.ToLower(query)
	out := make([]models.Course, 0, len(list))
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Title), needle) {
			out = append(out, c)
		}
	}
	return out
}

// Suggest returns at most SuggestionLimit title matches, none for an empty
// query. Whitespace is searched like any other text.
func Suggest(list []models.Course, query string) []models.Course {
	if query == "" {
		return []models.Course{}
	}
	matches := SearchByTitle(list, query)
	if len(matches) > SuggestionLimit {
		matches = matches[:SuggestionLimit]
	}
	out := make([]models.Course, len(matches))
	copy(out, matches)
	return out
}

// Categories lists AllCategories followed by the distinct departments of list.
func Categories(list []models.Course) []string {
	seen := make(map[string]struct{})
	depts := make([]string, 0)
	for _, c := range list {
		if c.Dept == "" {
			continue
		}
		if _, ok := seen[c.Dept]; ok {
			continue
		}
		seen[c.Dept] = struct{}{}
		depts = append(depts, c.Dept)
	}
	sort.Strings(depts)
	return append([]string{AllCategories}, depts...)
}
