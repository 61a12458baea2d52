package table

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// BindParams extracts list-view parameters from the request query string:
// q, sort, page, page_size, columns (comma separated keys), and one value
// per declared filter.
func (t *Table) BindParams(c *gin.Context) Params {
	p := Params{
		Query:   c.Query("q"),
		Sort:    c.Query("sort"),
		Filters: make(map[string]string, len(t.Filters)),
	}
	p.Page, _ = strconv.Atoi(c.Query("page"))
	p.PageSize, _ = strconv.Atoi(c.Query("page_size"))

	if cols := strings.TrimSpace(c.Query("columns")); cols != "" {
		for _, k := range strings.Split(cols, ",") {
			if k = strings.TrimSpace(k); k != "" {
				p.Visible = append(p.Visible, k)
			}
		}
	}
	for _, f := range t.Filters {
		if v := c.Query(f.Param); v != "" {
			p.Filters[f.Param] = v
		}
	}
	return p
}
