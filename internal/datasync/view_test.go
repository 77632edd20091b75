package datasync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lusoedu/sge-console/internal/models"
)

func rosterQuery(search string, page, size int) Query[models.Student] {
	return Query[models.Student]{
		Search:       search,
		SearchFields: func(s models.Student) []string { return []string{s.Name, s.GuardianName} },
		Page:         page,
		PageSize:     size,
	}
}

func TestProjectSearchIsCaseInsensitiveSubstring(t *testing.T) {
	list := []models.Student{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Bruno"}}

	visible, _ := Project(list, rosterQuery("an", 1, 0))
	require.Len(t, visible, 1)
	assert.Equal(t, "Ana", visible[0].Name)

	visible, _ = Project(list, rosterQuery("RUN", 1, 0))
	require.Len(t, visible, 1)
	assert.Equal(t, "Bruno", visible[0].Name)
}

func TestProjectIsDeterministic(t *testing.T) {
	list := []models.Student{
		{ID: 3, Name: "Carla"}, {ID: 1, Name: "Ana"}, {ID: 2, Name: "Bruno"},
	}
	q := Query[models.Student]{
		Less:     func(a, b models.Student) bool { return a.ID < b.ID },
		Page:     1,
		PageSize: 2,
	}

	first, firstPg := Project(list, q)
	second, secondPg := Project(list, q)
	assert.Equal(t, first, second)
	assert.Equal(t, firstPg, secondPg)

	// projection never mutates the canonical slice
	assert.Equal(t, "Carla", list[0].Name)
}

func TestProjectPaginationWindowAgainstFilteredList(t *testing.T) {
	list := make([]models.Student, 0, 30)
	for i := 1; i <= 30; i++ {
		name := "Aluno"
		if i%2 == 0 {
			name = "Par"
		}
		list = append(list, models.Student{ID: i, Name: name})
	}

	q := rosterQuery("par", 2, 5)
	visible, pg := Project(list, q)
	require.Len(t, visible, 5)
	assert.Equal(t, 15, pg.TotalCount)
	// second page of the filtered list starts at its 6th match
	assert.Equal(t, 12, visible[0].ID)
}

func TestProjectPageBeyondEndIsEmptyNotError(t *testing.T) {
	list := []models.Student{{ID: 1, Name: "Ana"}}

	visible, pg := Project(list, rosterQuery("", 7, 10))
	assert.Empty(t, visible)
	assert.Equal(t, 1, pg.TotalCount)
	assert.Equal(t, 7, pg.Page)
}

func TestProjectCategoricalFilterIsExactMatch(t *testing.T) {
	list := []models.Grade{
		{ID: 1, SchoolYear: "2024/2025"},
		{ID: 2, SchoolYear: "2023/2024"},
		{ID: 3, SchoolYear: "2024/2025"},
	}
	visible, _ := Project(list, Query[models.Grade]{
		Match: func(g models.Grade) bool { return g.SchoolYear == "2024/2025" },
	})
	require.Len(t, visible, 2)
	assert.Equal(t, 1, visible[0].ID)
	assert.Equal(t, 3, visible[1].ID)
}

func TestProjectStableSortKeepsServerOrderForTies(t *testing.T) {
	list := []models.StaffMember{
		{ID: 5, Name: "Rui", Role: "teacher"},
		{ID: 2, Name: "Rui", Role: "staff"},
	}
	visible, _ := Project(list, Query[models.StaffMember]{
		Less: func(a, b models.StaffMember) bool { return a.Name < b.Name },
	})
	require.Len(t, visible, 2)
	assert.Equal(t, 5, visible[0].ID)
}
