package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusIsValid(t *testing.T) {
	assert.True(t, TicketStatusReceived.IsValid())
	assert.True(t, TicketStatusInProgress.IsValid())
	assert.True(t, TicketStatusResolved.IsValid())

	assert.False(t, TicketStatus("").IsValid())
	assert.False(t, TicketStatus("received").IsValid())
	assert.False(t, TicketStatus("Closed").IsValid())
}

func TestTicketAssigned(t *testing.T) {
	ticket := Ticket{}
	assert.False(t, ticket.Assigned())

	agentID := int64(3)
	ticket.AgentID = &agentID
	assert.True(t, ticket.Assigned())
}
