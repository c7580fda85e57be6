// internal/clients/users_client.go
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"projectmembers/internal/directory"
)

// maxResponseSize caps how much of the upstream body is read.
const maxResponseSize = 1 << 20

// rawUser is the subset of an upstream user record the directory needs.
// Pointers distinguish a missing field from a zero value.
type rawUser struct {
	ID    *int    `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UsersClient fetches the member list from the users API.
type UsersClient struct {
	url    string
	client *http.Client
	tracer trace.Tracer
}

// NewUsersClient creates a client for url. A nil httpClient gets a plain
// client with the given timeout.
func NewUsersClient(url string, timeout time.Duration, httpClient *http.Client) *UsersClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &UsersClient{
		url:    url,
		client: httpClient,
		tracer: otel.Tracer("projectmembers/clients"),
	}
}

// Fetch issues one GET to the users endpoint and maps every record into a
// directory.Member. Any failure is returned as a *directory.FetchError.
func (c *UsersClient) Fetch(ctx context.Context) ([]directory.Member, error) {
	ctx, span := c.tracer.Start(ctx, "users.fetch",
		trace.WithAttributes(attribute.String("http.url", c.url)),
	)
	defer span.End()

	members, err := c.fetch(ctx, span)
	if err != nil {
		span.RecordError(err)
		return nil, &directory.FetchError{Op: "GET " + c.url, Err: err}
	}
	span.SetAttributes(attribute.Int("members.count", len(members)))
	return members, nil
}

func (c *UsersClient) fetch(ctx context.Context, span trace.Span) ([]directory.Member, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var raw []rawUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return toMembers(raw)
}

func toMembers(raw []rawUser) ([]directory.Member, error) {
	members := make([]directory.Member, 0, len(raw))
	for i, u := range raw {
		if u.ID == nil || u.Name == nil || u.Email == nil {
			return nil, fmt.Errorf("user record %d: %w", i, errMissingField)
		}
		members = append(members, directory.NewMember(*u.ID, *u.Name, *u.Email))
	}
	return members, nil
}

var errMissingField = errors.New("id, name and email are required")
