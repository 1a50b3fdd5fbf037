package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWithin(t *testing.T) {
	b := Bounds{Default: 7, Min: 5, Max: 25}

	p := &PaginationParams{}
	p.ValidateWithin(b)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 7, p.PerPage)

	p = &PaginationParams{Page: -2, PerPage: 2}
	p.ValidateWithin(b)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.PerPage)

	p = &PaginationParams{Page: 3, PerPage: 100}
	p.ValidateWithin(b)
	assert.Equal(t, 25, p.PerPage)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 7, 15)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := NewPagination(1, 0, 0)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	first := Paginate(items, &PaginationParams{Page: 1, PerPage: 5})
	assert.Equal(t, []int{1, 2, 3, 4, 5}, first.Items)
	assert.Equal(t, 3, first.Pagination.TotalPages)

	last := Paginate(items, &PaginationParams{Page: 3, PerPage: 5})
	assert.Equal(t, []int{11, 12}, last.Items)
	assert.False(t, last.Pagination.HasNext)

	past := Paginate(items, &PaginationParams{Page: 9, PerPage: 5})
	require.Equal(t, 3, past.Pagination.CurrentPage)
	assert.Equal(t, []int{11, 12}, past.Items)

	none := Paginate([]int{}, &PaginationParams{Page: 4, PerPage: 5})
	assert.Empty(t, none.Items)
	assert.Equal(t, int64(0), none.Pagination.Total)
}
