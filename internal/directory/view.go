// internal/directory/view.go
package directory

import (
	"context"
	"sync"
)

// RenderState is what a list view currently shows.
type RenderState int

const (
	StateLoading RenderState = iota
	StateError
	StateContent
)

func (s RenderState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateContent:
		return "content"
	default:
		return "unknown"
	}
}

// ListView holds the state of one member list view: the fetched members,
// the fetch status, and the viewer's search text, role filter and page.
//
// Changing the search text or role filter does not reset the page, and
// SetPage does not clamp against the filtered set, so a view can land on an
// empty page.
type ListView struct {
	loader func(ctx context.Context) ([]Member, error)

	mu       sync.Mutex
	state    RenderState
	err      error
	members  []Member
	criteria Criteria
	done     chan struct{}

	// OnChange, when set, is called after every state change.
	OnChange func()
}

// NewListView creates a view that loads members with loader.
func NewListView(loader func(ctx context.Context) ([]Member, error)) *ListView {
	return &ListView{
		loader:   loader,
		state:    StateLoading,
		criteria: Criteria{Page: 1},
		done:     make(chan struct{}),
	}
}

// Load starts fetching in the background. Completion moves the view to
// StateContent or StateError and fires OnChange. Only the first call fetches.
func (v *ListView) Load(ctx context.Context) {
	v.mu.Lock()
	if v.loader == nil {
		v.mu.Unlock()
		return
	}
	loader := v.loader
	v.loader = nil
	v.mu.Unlock()

	go func() {
		members, err := loader(ctx)

		v.mu.Lock()
		if err != nil {
			v.state = StateError
			v.err = err
		} else {
			v.state = StateContent
			v.members = members
		}
		v.mu.Unlock()

		close(v.done)
		v.changed()
	}()
}

// LoadSync loads and waits for completion or ctx cancellation.
func (v *ListView) LoadSync(ctx context.Context) {
	v.Load(ctx)
	select {
	case <-v.Done():
	case <-ctx.Done():
	}
}

// Done is closed once the fetch started by Load has completed.
func (v *ListView) Done() <-chan struct{} { return v.done }

func (v *ListView) SetSearch(text string) {
	v.mu.Lock()
	v.criteria.Search = text
	v.mu.Unlock()
	v.changed()
}

func (v *ListView) SetRole(role string) {
	v.mu.Lock()
	v.criteria.Role = role
	v.mu.Unlock()
	v.changed()
}

// SetPage moves to page; values below 1 become 1.
func (v *ListView) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.mu.Lock()
	v.criteria.Page = page
	v.mu.Unlock()
	v.changed()
}

// Apply replaces search, role and page in one step.
func (v *ListView) Apply(c Criteria) {
	v.mu.Lock()
	v.criteria = c.Normalize()
	v.mu.Unlock()
	v.changed()
}

func (v *ListView) Criteria() Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.criteria
}

func (v *ListView) State() RenderState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err is the fetch error in StateError, nil otherwise.
func (v *ListView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *ListView) Members() []Member {
	v.mu.Lock()
	defer v.mu.Unlock()
	return clone(v.members)
}

// Filtered is the members matching the current search and role filter.
func (v *ListView) Filtered() []Member {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Filter(v.members, v.criteria)
}

// Paginated is the current page of the filtered view.
func (v *ListView) Paginated() []Member {
	return v.Page().Items
}

func (v *ListView) PageCount() int {
	return v.Page().TotalPages
}

// Page recomputes the filtered, paginated window for the current state.
func (v *ListView) Page() *Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return NewPage(v.members, v.criteria)
}

func (v *ListView) changed() {
	if v.OnChange != nil {
		v.OnChange()
	}
}
