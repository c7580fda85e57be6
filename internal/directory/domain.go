// internal/directory/domain.go
package directory

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Role is the display role of a member.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleManager   Role = "Manager"
	RoleDeveloper Role = "Developer"
	RoleDesigner  Role = "Designer"
)

// Status is the display status of a member.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusPending  Status = "Pending"
)

// Roles and Statuses are ordered; a member's role and status are picked by id.
var (
	Roles    = []Role{RoleAdmin, RoleManager, RoleDeveloper, RoleDesigner}
	Statuses = []Status{StatusActive, StatusInactive, StatusPending}
)

// FailureMessage is the only error text a viewer ever sees.
const FailureMessage = "Failed to load users."

var (
	ErrFetchFailed = errors.New("fetch members failed")
	ErrRateLimited = errors.New("refresh rate limit exceeded")
)

// FetchError wraps the cause of a failed fetch. It matches ErrFetchFailed.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// Member is a directory entry. Role and Status are derived from ID.
type Member struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status Status `json:"status"`
}

// NewMember builds a member, deriving role and status from id.
func NewMember(id int, name, email string) Member {
	return Member{
		ID:     id,
		Name:   name,
		Email:  email,
		Role:   RoleFor(id),
		Status: StatusFor(id),
	}
}

// RoleFor returns Roles[id mod len(Roles)].
func RoleFor(id int) Role {
	return Roles[index(id, len(Roles))]
}

// StatusFor returns Statuses[id mod len(Statuses)].
func StatusFor(id int) Status {
	return Statuses[index(id, len(Statuses))]
}

// index is the non-negative remainder of id / n.
func index(id, n int) int {
	i := id % n
	if i < 0 {
		i += n
	}
	return i
}

// Initial is the avatar letter: the upper-cased first rune of the name.
func (m Member) Initial() string {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// ValidRole reports whether s names a role in Roles.
func ValidRole(s string) bool {
	for _, r := range Roles {
		if string(r) == s {
			return true
		}
	}
	return false
}
