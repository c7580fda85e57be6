// internal/directory/service.go
package directory

import (
	"context"
)

// Fetcher retrieves the full member list from the upstream users API.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Member, error)
}

// Service defines the interface for the directory service.
type Service interface {
	ListMembers(ctx context.Context) ([]Member, error)
	Query(ctx context.Context, c Criteria) (*Page, error)
	Refresh(ctx context.Context) ([]Member, error)
	Invalidate()
}
