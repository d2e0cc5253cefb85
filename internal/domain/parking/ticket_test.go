package parking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketClose(t *testing.T) {
	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ticket := NewTicket(uuid.New(), uuid.New(), uuid.New(), uuid.New(), entry)
	require.True(t, ticket.IsOpen())

	exit := entry.Add(2 * time.Hour)
	require.NoError(t, ticket.Close(exit))
	assert.Equal(t, TicketClosed, ticket.Status)
	require.NotNil(t, ticket.ExitAt)
	assert.Equal(t, exit, *ticket.ExitAt)
	assert.Equal(t, 2*time.Hour, ticket.Duration())
}

func TestTicketCloseTwice(t *testing.T) {
	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ticket := NewTicket(uuid.New(), uuid.New(), uuid.New(), uuid.New(), entry)
	require.NoError(t, ticket.Close(entry.Add(time.Hour)))

	err := ticket.Close(entry.Add(2 * time.Hour))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTicketCloseBeforeEntry(t *testing.T) {
	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ticket := NewTicket(uuid.New(), uuid.New(), uuid.New(), uuid.New(), entry)

	err := ticket.Close(entry.Add(-time.Minute))
	var ruleErr *BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "invalid_exit_time", ruleErr.Code)
	assert.True(t, ticket.IsOpen())
}
