// Package table builds list-view responses: declarative column specs plus
// search, filtering, sorting and pagination applied to a GORM query.
package table

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

// Column declares one column of a list view. Accessor is either the name of
// a struct field ("AssetTag"), a dotted relation path ("Company.Name"), or a
// func(row any) any for computed values.
type Column struct {
	Key       string
	Label     string
	Accessor  any
	Sortable  bool
	SortField string // database column used for ORDER BY
	Link      func(row any) string
	Badge     bool
	BadgeMap  map[string]string // value -> css class
	Hidden    bool              // excluded unless explicitly requested
	Align     string
	Width     string
}

// Filter declares a query-parameter driven filter. Either Column (simple
// equality) or Apply (custom condition) must be set.
type Filter struct {
	Param  string
	Column string
	Apply  func(q *gorm.DB, value string) *gorm.DB
}

// Table is a reusable list-view definition for one entity type.
type Table struct {
	Columns      []Column
	SearchFields []string // database columns unioned for substring search
	Filters      []Filter
	DefaultSort  string
	PageSize     int
}

// Params carries the request's list-view parameters.
type Params struct {
	Query    string
	Sort     string
	Page     int
	PageSize int
	Filters  map[string]string
	Visible  []string // column keys, overrides the default visibility
}

// Header describes one rendered column header, including the sort state
// needed for toggle links.
type Header struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Sortable  bool   `json:"sortable"`
	IsCurrent bool   `json:"is_current"`
	Direction string `json:"direction,omitempty"` // "asc" or "desc" when current
	NextSort  string `json:"next_sort,omitempty"`
	Align     string `json:"align,omitempty"`
	Width     string `json:"width,omitempty"`
}

// Cell is one rendered value
type Cell struct {
	Key        string `json:"key"`
	Value      any    `json:"value"`
	Link       string `json:"link,omitempty"`
	BadgeClass string `json:"badge_class,omitempty"`
}

// Row is one rendered record
type Row struct {
	ID    any    `json:"id,omitempty"`
	Cells []Cell `json:"cells"`
}

// Result is the full list-view payload
type Result struct {
	Headers    []Header `json:"headers"`
	Rows       []Row    `json:"rows"`
	TotalCount int64    `json:"total_count"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
	Query      string   `json:"query,omitempty"`
	Sort       string   `json:"sort,omitempty"`
}

// Run applies search, filters, sorting and pagination to the query, loads the
// current page into dest (a pointer to a slice), and builds the response.
func (t *Table) Run(q *gorm.DB, p Params, dest any) (*Result, error) {
	q = t.applySearch(q, p.Query)
	q = t.applyFilters(q, p.Filters)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting rows: %w", err)
	}

	sort := t.resolveSort(p.Sort)
	if order := t.orderClause(sort); order != "" {
		q = q.Order(order)
	}

	page, size := t.pagination(p)
	if err := q.Offset((page - 1) * size).Limit(size).Find(dest).Error; err != nil {
		return nil, fmt.Errorf("loading rows: %w", err)
	}

	res := t.buildResult(dest, p, sort, total, page, size)
	return res, nil
}

// RunSlice builds a result from an already-loaded slice. Search, filtering
// and sorting are the caller's responsibility; only pagination and rendering
// happen here.
func (t *Table) RunSlice(rows any, p Params) *Result {
	rv := reflect.ValueOf(rows)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	total := int64(rv.Len())

	page, size := t.pagination(p)
	start := (page - 1) * size
	if start > rv.Len() {
		start = rv.Len()
	}
	end := start + size
	if end > rv.Len() {
		end = rv.Len()
	}
	window := rv.Slice(start, end).Interface()

	sort := t.resolveSort(p.Sort)
	return t.buildResult(window, p, sort, total, page, size)
}

func (t *Table) applySearch(q *gorm.DB, query string) *gorm.DB {
	query = strings.TrimSpace(query)
	if query == "" || len(t.SearchFields) == 0 {
		return q
	}
	like := "%" + strings.ToLower(query) + "%"
	conds := make([]string, 0, len(t.SearchFields))
	args := make([]any, 0, len(t.SearchFields))
	for _, f := range t.SearchFields {
		conds = append(conds, "lower("+f+") LIKE ?")
		args = append(args, like)
	}
	return q.Where(strings.Join(conds, " OR "), args...)
}

func (t *Table) applyFilters(q *gorm.DB, values map[string]string) *gorm.DB {
	for _, f := range t.Filters {
		v, ok := values[f.Param]
		if !ok || v == "" {
			continue
		}
		switch {
		case f.Apply != nil:
			q = f.Apply(q, v)
		case f.Column != "":
			q = q.Where(f.Column+" = ?", v)
		}
	}
	return q
}

// resolveSort validates the requested sort against the declared sortable
// columns so arbitrary SQL never reaches ORDER BY. Invalid or missing sorts
// fall back to the table default.
func (t *Table) resolveSort(requested string) string {
	if requested != "" && t.sortColumn(strings.TrimPrefix(requested, "-")) != "" {
		return requested
	}
	return t.DefaultSort
}

// sortColumn returns the database column for a sort key, or "" if the key is
// not a declared sortable column.
func (t *Table) sortColumn(key string) string {
	for _, c := range t.Columns {
		if !c.Sortable {
			continue
		}
		if c.Key == key || c.SortField == key {
			if c.SortField != "" {
				return c.SortField
			}
			return c.Key
		}
	}
	return ""
}

func (t *Table) orderClause(sort string) string {
	if sort == "" {
		return ""
	}
	key := sort
	desc := false
	if strings.HasPrefix(sort, "-") {
		key = sort[1:]
		desc = true
	}
	col := t.sortColumn(key)
	if col == "" {
		return ""
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

func (t *Table) pagination(p Params) (page, size int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	size = p.PageSize
	if size < 1 {
		size = t.PageSize
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// visibleColumns keeps request-selected columns when given, otherwise every
// column not marked Hidden. Unknown keys in the request are ignored.
func (t *Table) visibleColumns(p Params) []Column {
	if len(p.Visible) > 0 {
		wanted := make(map[string]bool, len(p.Visible))
		for _, k := range p.Visible {
			wanted[k] = true
		}
		cols := make([]Column, 0, len(t.Columns))
		for _, c := range t.Columns {
			if wanted[c.Key] {
				cols = append(cols, c)
			}
		}
		if len(cols) > 0 {
			return cols
		}
	}
	cols := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Hidden {
			cols = append(cols, c)
		}
	}
	return cols
}

func (t *Table) buildResult(rows any, p Params, sort string, total int64, page, size int) *Result {
	cols := t.visibleColumns(p)

	res := &Result{
		Headers:    t.buildHeaders(cols, sort),
		Rows:       t.buildRows(cols, rows),
		TotalCount: total,
		Page:       page,
		PageSize:   size,
		TotalPages: int(math.Ceil(float64(total) / float64(size))),
		Query:      p.Query,
		Sort:       sort,
	}
	return res
}

func (t *Table) buildHeaders(cols []Column, sort string) []Header {
	current := strings.TrimPrefix(sort, "-")
	descending := strings.HasPrefix(sort, "-")

	headers := make([]Header, 0, len(cols))
	for _, c := range cols {
		h := Header{
			Key:      c.Key,
			Label:    c.Label,
			Sortable: c.Sortable,
			Align:    c.Align,
			Width:    c.Width,
		}
		if c.Sortable {
			// Clicking the current ascending column flips it descending,
			// anything else starts ascending.
			if c.Key == current {
				h.IsCurrent = true
				if descending {
					h.Direction = "desc"
					h.NextSort = c.Key
				} else {
					h.Direction = "asc"
					h.NextSort = "-" + c.Key
				}
			} else {
				h.NextSort = c.Key
			}
		}
		headers = append(headers, h)
	}
	return headers
}

func (t *Table) buildRows(cols []Column, rows any) []Row {
	rv := reflect.ValueOf(rows)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return nil
	}

	out := make([]Row, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i)
		row := item.Interface()
		if item.Kind() == reflect.Struct && item.CanAddr() {
			row = item.Addr().Interface()
		}

		r := Row{ID: fieldValue(row, "ID")}
		for _, c := range cols {
			cell := Cell{Key: c.Key, Value: resolveAccessor(row, c)}
			if c.Link != nil {
				cell.Link = c.Link(row)
			}
			if c.Badge && cell.Value != nil {
				cell.BadgeClass = c.BadgeMap[fmt.Sprint(cell.Value)]
			}
			r.Cells = append(r.Cells, cell)
		}
		out = append(out, r)
	}
	return out
}

func resolveAccessor(row any, c Column) any {
	switch acc := c.Accessor.(type) {
	case nil:
		return fieldValue(row, c.Key)
	case string:
		return fieldValue(row, acc)
	case func(any) any:
		return acc(row)
	}
	return nil
}

// fieldValue walks a dotted field path through structs and pointers. A nil
// link anywhere along the path yields nil.
func fieldValue(row any, path string) any {
	v := reflect.ValueOf(row)
	for _, part := range strings.Split(path, ".") {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil
		}
		v = v.FieldByName(part)
		if !v.IsValid() {
			return nil
		}
	}
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
