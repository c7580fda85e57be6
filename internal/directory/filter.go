// internal/directory/filter.go
package directory

import (
	"strings"
)

// PageSize is the number of rows shown per page.
const PageSize = 10

// Criteria is the viewer-controlled part of a list view.
type Criteria struct {
	Search string `json:"search"`
	Role   string `json:"role"`
	Page   int    `json:"page"`
}

// Normalize coerces Page to at least 1. Search and Role are kept verbatim.
func (c Criteria) Normalize() Criteria {
	if c.Page < 1 {
		c.Page = 1
	}
	return c
}

// Matches reports whether m passes the search text and role filter.
// An empty search matches everything; an empty role disables role filtering.
func (c Criteria) Matches(m Member) bool {
	if c.Role != "" && string(m.Role) != c.Role {
		return false
	}
	if c.Search == "" {
		return true
	}
	needle := strings.ToLower(c.Search)
	return strings.Contains(strings.ToLower(m.Name), needle) ||
		strings.Contains(strings.ToLower(m.Email), needle)
}

// Filter returns the members matching c, in source order. The input is not modified.
func Filter(members []Member, c Criteria) []Member {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if c.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// Paginate returns the page-th window (1-based) of size PageSize.
// Pages past the end yield an empty slice.
func Paginate(members []Member, page int) []Member {
	if page < 1 {
		page = 1
	}
	// Compare page indexes before multiplying so huge pages cannot overflow.
	if page-1 >= PageCount(len(members)) {
		return []Member{}
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(members) {
		end = len(members)
	}
	return members[start:end]
}

// PageCount is ceil(total / PageSize).
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Page is one rendered window of the filtered view.
type Page struct {
	Items      []Member `json:"items"`
	Criteria   Criteria `json:"-"`
	Number     int      `json:"page"`
	Size       int      `json:"page_size"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
}

// NewPage filters and paginates members according to c.
func NewPage(members []Member, c Criteria) *Page {
	c = c.Normalize()
	filtered := Filter(members, c)
	return &Page{
		Items:      Paginate(filtered, c.Page),
		Criteria:   c,
		Number:     c.Page,
		Size:       PageSize,
		Total:      len(filtered),
		TotalPages: PageCount(len(filtered)),
	}
}

func (p *Page) HasPrev() bool { return p.Number > 1 }

func (p *Page) HasNext() bool { return p.Number < p.TotalPages }
