package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/eduapp_backend/internal/registry"
)

// listOptions reads limit, page, all, sort_by and sort_dir from the query.
func listOptions(c *gin.Context) registry.ListOptions {
	opts := registry.ListOptions{
		All:     strings.EqualFold(c.Query("all"), "true") || c.Query("all") == "1",
		SortBy:  strings.ToLower(c.DefaultQuery("sort_by", "created_at")),
		SortDir: strings.ToUpper(c.DefaultQuery("sort_dir", "DESC")),
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Page = n
		}
	}
	return opts.Normalize()
}

func listMeta(opts registry.ListOptions, total int64) gin.H {
	meta := gin.H{
		"total":    total,
		"sort_by":  opts.SortBy,
		"sort_dir": opts.SortDir,
	}
	if opts.All {
		meta["limit"] = total
		meta["page"] = 1
		meta["total_pages"] = 1
		return meta
	}
	meta["limit"] = opts.Limit
	meta["page"] = opts.Page
	meta["total_pages"] = (total + int64(opts.Limit) - 1) / int64(opts.Limit)
	return meta
}
