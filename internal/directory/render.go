// internal/directory/render.go
package directory

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"strconv"
)

//go:embed templates/members.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/members.html"))

type roleOption struct {
	Value    string
	Selected bool
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type viewData struct {
	State     string
	Message   string
	Action    string
	AddAction string
	Criteria  Criteria
	Roles     []roleOption
	Page      *Page
	Links     []pageLink
}

// RenderOptions sets the form targets of the rendered page.
type RenderOptions struct {
	// Action is the path the filter form submits to and page links point at.
	Action string
	// AddAction is the path the Add Member button posts to.
	AddAction string
}

// Render writes the HTML for the view's current state: a loading indicator,
// the failure message, or the filter toolbar, member table and pagination.
func Render(w io.Writer, v *ListView, opts RenderOptions) error {
	if opts.Action == "" {
		opts.Action = "/"
	}
	state := v.State()
	data := viewData{
		State:     state.String(),
		Action:    opts.Action,
		AddAction: opts.AddAction,
	}

	switch state {
	case StateError:
		data.Message = FailureMessage
	case StateContent:
		page := v.Page()
		data.Criteria = page.Criteria
		data.Page = page
		data.Roles = roleOptions(page.Criteria.Role)
		data.Links = pageLinks(opts.Action, page)
	}

	return pageTemplate.Execute(w, data)
}

func roleOptions(selected string) []roleOption {
	out := make([]roleOption, 0, len(Roles))
	for _, r := range Roles {
		out = append(out, roleOption{Value: string(r), Selected: string(r) == selected})
	}
	return out
}

// pageLinks builds one link per page, carrying the search and role along.
func pageLinks(action string, p *Page) []pageLink {
	links := make([]pageLink, 0, p.TotalPages)
	for n := 1; n <= p.TotalPages; n++ {
		links = append(links, pageLink{
			Number:  n,
			URL:     PageURL(action, p.Criteria, n),
			Current: n == p.Number,
		})
	}
	return links
}

// PageURL is action with q, role and page set for the given page.
func PageURL(action string, c Criteria, page int) string {
	q := url.Values{}
	if c.Search != "" {
		q.Set("q", c.Search)
	}
	if c.Role != "" {
		q.Set("role", c.Role)
	}
	q.Set("page", strconv.Itoa(page))
	return action + "?" + q.Encode()
}
