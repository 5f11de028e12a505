package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOptions_Normalize(t *testing.T) {
	o := ListOptions{SortBy: "password; DROP", SortDir: "sideways"}.Normalize()
	assert.Equal(t, 20, o.Limit)
	assert.Equal(t, 1, o.Page)
	assert.Equal(t, "created_at DESC", o.Order())
	assert.Equal(t, 0, o.Offset())

	o = ListOptions{Limit: 5, Page: 3, SortBy: "code", SortDir: "ASC"}.Normalize()
	assert.Equal(t, "code ASC", o.Order())
	assert.Equal(t, 10, o.Offset())
}
