package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/vetclinic-service/internal/domain"
)

func TestListSpecBuild_Defaults(t *testing.T) {
	query, count, args := clientList.build(domain.ListOptions{Page: 1, Limit: 10})

	assert.Equal(t, "SELECT "+clientColumns+" FROM clients ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2", query)
	assert.Equal(t, "SELECT COUNT(*) FROM clients", count)
	assert.Empty(t, args)
}

func TestListSpecBuild_FiltersAndSort(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 999e6, time.UTC)

	query, count, args := anamneseList.build(domain.ListOptions{
		Page:      2,
		Limit:     5,
		SortBy:    "date",
		SortOrder: domain.SortAsc,
		Search:    "100%_off",
		StartDate: &start,
		EndDate:   &end,
	})

	where := " WHERE (reason ILIKE $1 OR assessment ILIKE $1 OR plan ILIKE $1) AND date >= $2 AND date <= $3"
	assert.Equal(t, "SELECT "+anamneseColumns+" FROM anamneses"+where+" ORDER BY date ASC, id ASC LIMIT $4 OFFSET $5", query)
	assert.Equal(t, "SELECT COUNT(*) FROM anamneses"+where, count)
	assert.Equal(t, []any{`%100\%\_off%`, start, end}, args)
}

func TestListSpecBuild_UnknownSortFallsBack(t *testing.T) {
	query, _, _ := petList.build(domain.ListOptions{Limit: 10, SortBy: "password_hash; DROP TABLE pets"})
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.NotContains(t, query, "DROP")
}
