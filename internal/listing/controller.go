// Package listing implements the sortable, paginated deal list
// controller. The controller owns sort and page state only; ordering
// and paging themselves are delegated to the record store, which
// returns pre-sorted, pre-paged rows plus a total count. That keeps the
// full record set out of memory.
package listing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/dealflow/internal/models"
)

// ErrPageOutOfRange indicates a navigation request past the first or
// last page. Callers disable the controls via CanPrev/CanNext; hitting
// this means a stale client raced a shrinking total.
var ErrPageOutOfRange = errors.New("page out of range")

// SortColumn is the closed set of sortable deal list columns
type SortColumn string

const (
	SortByCompanyName SortColumn = "company_name"
	SortBySector      SortColumn = "sector"
	SortByStage       SortColumn = "stage"
	SortByAIScore     SortColumn = "ai_score"
	SortByValuation   SortColumn = "valuation_usd"
	SortByCreatedAt   SortColumn = "created_at"
	SortByOutcome     SortColumn = "outcome"
)

// Direction is a sort direction
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// defaultDirections pins the direction a column starts in when it
// becomes the active sort. Numeric and date columns start descending
// (biggest and newest first), textual columns ascending.
var defaultDirections = map[SortColumn]Direction{
	SortByCompanyName: Ascending,
	SortBySector:      Ascending,
	SortByStage:       Ascending,
	SortByAIScore:     Descending,
	SortByValuation:   Descending,
	SortByCreatedAt:   Descending,
	SortByOutcome:     Ascending,
}

// DefaultDirection returns the direction a column starts in when it
// becomes the active sort.
func DefaultDirection(column SortColumn) Direction {
	if dir, ok := defaultDirections[column]; ok {
		return dir
	}
	return Ascending
}

// ParseSortColumn validates a column name arriving from the caller
func ParseSortColumn(s string) (SortColumn, error) {
	col := SortColumn(s)
	if _, ok := defaultDirections[col]; !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownSortColumn, s)
	}
	return col, nil
}

// Query is the sort and page request the controller emits to the store
type Query struct {
	Column    SortColumn
	Direction Direction
	Page      int
	PageSize  int
}

// Offset returns the zero-based row offset for the query's page
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Controller maintains sort, page, and selection state over a
// server-paged result set.
type Controller struct {
	mu        sync.Mutex
	column    SortColumn
	direction Direction
	page      int
	pageSize  int
	total     int
	selected  map[uuid.UUID]bool
	busy      bool
}

// NewController creates a controller sorted by creation date, newest
// first, on page 1.
func NewController(pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Controller{
		column:    SortByCreatedAt,
		direction: defaultDirections[SortByCreatedAt],
		page:      1,
		pageSize:  pageSize,
		selected:  make(map[uuid.UUID]bool),
	}
}

// ToggleSort applies a sort header click. Clicking the active column
// flips its direction; clicking a new column makes it active at its
// default direction. Either way the page resets to 1, since the old
// page window is meaningless under a new ordering.
func (c *Controller) ToggleSort(column SortColumn) Query {
	c.mu.Lock()
	defer c.mu.Unlock()

	if column == c.column {
		if c.direction == Ascending {
			c.direction = Descending
		} else {
			c.direction = Ascending
		}
	} else {
		c.column = column
		c.direction = defaultDirections[column]
	}
	c.page = 1
	return c.queryLocked()
}

// SetTotal records the total count reported by the store. If the
// current page has fallen past the end (rows deleted underneath us),
// it snaps back to the last valid page.
func (c *Controller) SetTotal(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if total < 0 {
		total = 0
	}
	c.total = total
	if last := c.pageCountLocked(); c.page > last {
		c.page = last
	}
}

// PageCount returns ceil(total/pageSize), never less than 1
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageCountLocked()
}

func (c *Controller) pageCountLocked() int {
	count := (c.total + c.pageSize - 1) / c.pageSize
	if count < 1 {
		count = 1
	}
	return count
}

// CanPrev reports whether backward navigation is allowed
func (c *Controller) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page > 1
}

// CanNext reports whether forward navigation is allowed
func (c *Controller) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page < c.pageCountLocked()
}

// Prev moves one page back. Navigation below page 1 is refused, not
// clamped silently; callers disable the control via CanPrev.
func (c *Controller) Prev() (Query, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.page <= 1 {
		return Query{}, fmt.Errorf("%w: already on first page", ErrPageOutOfRange)
	}
	c.page--
	return c.queryLocked(), nil
}

// Next moves one page forward, refusing to pass the last page
func (c *Controller) Next() (Query, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.page >= c.pageCountLocked() {
		return Query{}, fmt.Errorf("%w: already on last page", ErrPageOutOfRange)
	}
	c.page++
	return c.queryLocked(), nil
}

// GoToPage jumps to a specific page within bounds
func (c *Controller) GoToPage(page int) (Query, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if page < 1 || page > c.pageCountLocked() {
		return Query{}, fmt.Errorf("%w: page %d of 1-%d", ErrPageOutOfRange, page, c.pageCountLocked())
	}
	c.page = page
	return c.queryLocked(), nil
}

// Query returns the current sort and page request
func (c *Controller) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queryLocked()
}

func (c *Controller) queryLocked() Query {
	return Query{
		Column:    c.column,
		Direction: c.direction,
		Page:      c.page,
		PageSize:  c.pageSize,
	}
}

// RangeLabel renders the displayed row range, e.g. "21–25 of 25"
func (c *Controller) RangeLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.total == 0 {
		return "No deals"
	}
	first := (c.page-1)*c.pageSize + 1
	last := c.page * c.pageSize
	if last > c.total {
		last = c.total
	}
	return fmt.Sprintf("%d–%d of %d", first, last, c.total)
}

// ToggleSelect flips a row's membership in the selection set
func (c *Controller) ToggleSelect(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected[id] {
		delete(c.selected, id)
	} else {
		c.selected[id] = true
	}
}

// Selected returns the selected deal IDs in no particular order
func (c *Controller) Selected() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	return ids
}

// IsSelected reports whether a row is in the selection set
func (c *Controller) IsSelected(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected[id]
}

// ClearSelection empties the selection set. Only explicit caller action
// clears it; sorting and paging leave it intact.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[uuid.UUID]bool)
}

// TryBegin claims the single in-flight request slot. A trigger arriving
// while a request is already in flight is ignored, never dispatched as
// a second concurrent write.
func (c *Controller) TryBegin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return false
	}
	c.busy = true
	return true
}

// End releases the in-flight slot on both success and failure paths
func (c *Controller) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

// Busy reports whether a request is in flight
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}
