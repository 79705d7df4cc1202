package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
)

func sampleCatalogue() []models.Course {
	return []models.Course{
		{ID: 1, Title: "Intro to Go", Dept: "CS"},
		{ID: 2, Title: "Go Concurrency", Dept: "CS"},
		{ID: 3, Title: "Optics", Dept: "PHY"},
		{ID: 4, Title: "Algorithms", Dept: "cs"},
		{ID: 5, Title: "GOLANG tooling", Dept: "CS"},
		{ID: 6, Title: "Going further", Dept: "MATH"},
		{ID: 7, Title: "Cargo logistics", Dept: "ENG"},
	}
}

func TestFilterByCategory(t *testing.T) {
	list := sampleCatalogue()

	cs := FilterByCategory(list, "CS")
	assert.Len(t, cs, 3)
	for _, c := range cs {
		assert.Equal(t, "CS", c.Dept)
	}

	assert.Equal(t, list, FilterByCategory(list, AllCategories))
	assert.Empty(t, FilterByCategory(list, "BIO"))
}

func TestSearchByTitle(t *testing.T) {
	list := sampleCatalogue()

	got := SearchByTitle(list, "go")
	ids := make([]int64, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 5, 6, 7}, ids)
	assert.Equal(t, list, SearchByTitle(list, ""))
	assert.Empty(t, SearchByTitle(list, "quantum"))
}

func TestSuggest(t *testing.T) {
	list := sampleCatalogue()

	assert.Len(t, Suggest(list, "o"), SuggestionLimit)
	assert.Len(t, Suggest(list, "optics"), 1)
	assert.Equal(t, []models.Course{}, Suggest(list, ""))
}

func TestSuggestMatchesSearchForWhitespace(t *testing.T) {
	list := []models.Course{{ID: 1, Title: "Data Science"}, {ID: 2, Title: "Physics"}}
	assert.Len(t, SearchByTitle(list, " "), 1)
	require.Len(t, Suggest(list, " "), 1)
	assert.Equal(t, int64(1), Suggest(list, " ")[0].ID)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"All", "CS", "ENG", "MATH", "PHY", "cs"}, Categories(sampleCatalogue()))
	assert.Equal(t, []string{"All"}, Categories(nil))
}
