package registry

import "fmt"

const defaultListLimit = 20

var allowedSorts = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"code":       "code",
	"kind":       "kind",
}

// ListOptions mirrors the list query parameters: limit, page, all, sort_by,
// sort_dir.
type ListOptions struct {
	Limit   int
	Page    int
	All     bool
	SortBy  string
	SortDir string
}

func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = defaultListLimit
	}
	if o.Page <= 0 {
		o.Page = 1
	}
	if _, ok := allowedSorts[o.SortBy]; !ok {
		o.SortBy = "created_at"
	}
	if o.SortDir != "ASC" && o.SortDir != "DESC" {
		o.SortDir = "DESC"
	}
	return o
}

func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

func (o ListOptions) Order() string {
	return fmt.Sprintf("%s %s", allowedSorts[o.SortBy], o.SortDir)
}
