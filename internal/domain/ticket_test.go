package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusCanAdvanceTo(t *testing.T) {
	tests := []struct {
		from, to TicketStatus
		want     bool
	}{
		{TicketStatusOpen, TicketStatusInProgress, true},
		{TicketStatusOpen, TicketStatusClosed, true},
		{TicketStatusInProgress, TicketStatusResolved, true},
		{TicketStatusResolved, TicketStatusClosed, true},
		{TicketStatusOpen, TicketStatusOpen, true},
		{TicketStatusResolved, TicketStatusOpen, false},
		{TicketStatusInProgress, TicketStatusOpen, false},
		{TicketStatusClosed, TicketStatusResolved, false},
		{TicketStatusClosed, TicketStatusClosed, true},
		{TicketStatusOpen, TicketStatus("DONE"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTicketStatusCanBeResolvedByAdmin(t *testing.T) {
	assert.True(t, TicketStatusOpen.CanBeResolvedByAdmin())
	assert.True(t, TicketStatusInProgress.CanBeResolvedByAdmin())
	assert.False(t, TicketStatusResolved.CanBeResolvedByAdmin())
	assert.False(t, TicketStatusClosed.CanBeResolvedByAdmin())
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, TicketPriorityUrgent.Valid())
	assert.False(t, TicketPriority("CRITICAL").Valid())
	assert.True(t, LeaseStatusEnded.Valid())
	assert.False(t, LeaseStatus("PAUSED").Valid())
	assert.True(t, RoleTenant.Valid())
	assert.False(t, Role("STAFF").Valid())
}

func TestIdentityOwns(t *testing.T) {
	id := Identity{UserID: "u1", Role: RoleTenant}
	assert.True(t, id.Owns("u1"))
	assert.False(t, id.Owns("u2"))
	assert.False(t, Identity{}.Owns(""))
	assert.True(t, Identity{Role: RoleAdmin}.IsAdmin())
}

func TestSanitizeAttachments(t *testing.T) {
	raw := []any{"a", "", "  ", 42, nil, "b", "c", map[string]any{"url": "x"}, "d", "e", "f", "g"}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, SanitizeAttachments(raw))
	assert.Equal(t, []string{}, SanitizeAttachments(nil))

	assert.Equal(t, []string{"a", "b"}, CleanAttachments([]string{" ", "a", "", "b"}))
	assert.Len(t, CleanAttachments([]string{"1", "2", "3", "4", "5", "6", "7"}), MaxTicketAttachments)
}
