package directory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRoleAndStatusDerivedFromID(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.IntRange(0, 1<<30).Draw(t, "id")
		m := NewMember(id, "name", "email@example.com")

		if m.Role != Roles[id%len(Roles)] {
			t.Fatalf("role for id %d = %s", id, m.Role)
		}
		if m.Status != Statuses[id%len(Statuses)] {
			t.Fatalf("status for id %d = %s", id, m.Status)
		}
	})
}

func TestRoleForKnownIDs(t *testing.T) {
	assert.Equal(t, RoleManager, RoleFor(1))
	assert.Equal(t, RoleDeveloper, RoleFor(2))
	assert.Equal(t, RoleDesigner, RoleFor(3))
	assert.Equal(t, RoleAdmin, RoleFor(4))
	assert.Equal(t, StatusInactive, StatusFor(1))
	assert.Equal(t, StatusPending, StatusFor(2))
	assert.Equal(t, StatusActive, StatusFor(3))
}

func TestNegativeIDsStayInRange(t *testing.T) {
	assert.Equal(t, RoleDesigner, RoleFor(-1))
	assert.Equal(t, StatusPending, StatusFor(-1))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "L", Member{Name: "leanne Graham"}.Initial())
	assert.Equal(t, "É", Member{Name: "émile"}.Initial())
	assert.Equal(t, "?", Member{Name: "  "}.Initial())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("Admin"))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}

func TestFetchErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("refresh: %w", &FetchError{Op: "GET /users", Err: cause})

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
