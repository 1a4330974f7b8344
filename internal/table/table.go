// Package table derives the row table shown for a record set: columns as the
// union of all property keys, cell text, quick filtering, sorting and paging.
//
// Rows are always addressed by record key, never by visible position, so a
// selection survives re-sorting and filtering.
package table

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/muurk/nodeedit/internal/graph"
)

// PageSizes are the rows-per-page options offered by the table.
var PageSizes = []int{5, 10, 20}

// DefaultPageSize is the initial rows-per-page value.
const DefaultPageSize = 5

// Columns returns the union of keys across records in first-seen order.
// Keys new to a record are appended in lexical order so the result does not
// depend on map iteration.
func Columns(records []graph.Record) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range records {
		for _, k := range graph.SortedKeys(r.Props) {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// Header returns the column label for key: the key with its first letter
// upper-cased.
func Header(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// Cell returns the text of a record's value for key. Missing keys render
// as empty cells.
func Cell(r graph.Record, key string) string {
	v, ok := r.Props[key]
	if !ok {
		return ""
	}
	return graph.FormatValue(v)
}

// SortOrder is the direction of a column sort.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAsc
	SortDesc
)

// View is a filtered, sorted and paged projection of a record set.
type View struct {
	records  []graph.Record
	columns  []string
	filter   string
	sortCol  string
	order    SortOrder
	pageSize int
	page     int

	rows []graph.Record
}

// NewView creates a view over records with the default page size.
func NewView(records []graph.Record) *View {
	v := &View{pageSize: DefaultPageSize}
	v.SetRecords(records)
	return v
}

// SetRecords replaces the underlying records, keeping filter and sort.
func (v *View) SetRecords(records []graph.Record) {
	v.records = records
	v.columns = Columns(records)
	v.refresh()
}

// Columns returns the column keys of the view.
func (v *View) Columns() []string {
	return v.columns
}

// Headers returns the column labels.
func (v *View) Headers() []string {
	out := make([]string, len(v.columns))
	for i, c := range v.columns {
		out[i] = Header(c)
	}
	return out
}

// SetFilter sets the quick filter text and returns to the first page.
func (v *View) SetFilter(text string) {
	v.filter = strings.TrimSpace(text)
	v.page = 0
	v.refresh()
}

// Filter returns the active quick filter text.
func (v *View) Filter() string {
	return v.filter
}

// CycleSort advances the sort on column: none → ascending → descending →
// none. Sorting a different column starts at ascending.
func (v *View) CycleSort(column string) {
	if v.sortCol != column {
		v.sortCol = column
		v.order = SortAsc
	} else {
		v.order = (v.order + 1) % 3
		if v.order == SortNone {
			v.sortCol = ""
		}
	}
	v.refresh()
}

// Sort returns the current sort column and order.
func (v *View) Sort() (string, SortOrder) {
	return v.sortCol, v.order
}

// CyclePageSize moves to the next entry in PageSizes and resets to the
// first page.
func (v *View) CyclePageSize() int {
	next := PageSizes[0]
	for i, size := range PageSizes {
		if size == v.pageSize && i+1 < len(PageSizes) {
			next = PageSizes[i+1]
		}
	}
	v.pageSize = next
	v.page = 0
	return next
}

// PageSize returns the rows per page.
func (v *View) PageSize() int {
	return v.pageSize
}

// Page returns the zero-based current page.
func (v *View) Page() int {
	return v.page
}

// PageCount returns the number of pages, at least one.
func (v *View) PageCount() int {
	if len(v.rows) == 0 {
		return 1
	}
	return (len(v.rows) + v.pageSize - 1) / v.pageSize
}

// NextPage advances one page if possible.
func (v *View) NextPage() bool {
	if v.page+1 >= v.PageCount() {
		return false
	}
	v.page++
	return true
}

// PrevPage goes back one page if possible.
func (v *View) PrevPage() bool {
	if v.page == 0 {
		return false
	}
	v.page--
	return true
}

// MatchCount returns the number of rows passing the filter.
func (v *View) MatchCount() int {
	return len(v.rows)
}

// PageRows returns the records on the current page.
func (v *View) PageRows() []graph.Record {
	start := v.page * v.pageSize
	if start >= len(v.rows) {
		return nil
	}
	end := start + v.pageSize
	if end > len(v.rows) {
		end = len(v.rows)
	}
	return v.rows[start:end]
}

// Cells returns the cell texts of a record in column order.
func (v *View) Cells(r graph.Record) []string {
	out := make([]string, len(v.columns))
	for i, c := range v.columns {
		out[i] = Cell(r, c)
	}
	return out
}

// RowAt returns the record at a position of the current page.
func (v *View) RowAt(pos int) (graph.Record, bool) {
	rows := v.PageRows()
	if pos < 0 || pos >= len(rows) {
		return graph.Record{}, false
	}
	return rows[pos], true
}

// PositionOf returns the position of key on the current page, or -1.
func (v *View) PositionOf(key int) int {
	for i, r := range v.PageRows() {
		if r.Key == key {
			return i
		}
	}
	return -1
}

func (v *View) refresh() {
	rows := make([]graph.Record, 0, len(v.records))
	needle := strings.ToLower(v.filter)
	for _, r := range v.records {
		if needle == "" || v.matches(r, needle) {
			rows = append(rows, r)
		}
	}

	if v.order != SortNone && v.sortCol != "" {
		col, desc := v.sortCol, v.order == SortDesc
		sort.SliceStable(rows, func(i, j int) bool {
			if desc {
				return less(rows[j], rows[i], col)
			}
			return less(rows[i], rows[j], col)
		})
	}

	v.rows = rows
	if v.page >= v.PageCount() {
		v.page = v.PageCount() - 1
	}
}

// less orders numbers numerically and everything else by cell text.
func less(a, b graph.Record, col string) bool {
	if x, ok := graph.AsNumber(a.Props[col]); ok {
		if y, ok := graph.AsNumber(b.Props[col]); ok {
			return x < y
		}
	}
	return Cell(a, col) < Cell(b, col)
}

func (v *View) matches(r graph.Record, needle string) bool {
	for _, c := range v.columns {
		if strings.Contains(strings.ToLower(Cell(r, c)), needle) {
			return true
		}
	}
	return false
}
