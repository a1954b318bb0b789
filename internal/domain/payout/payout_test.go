package payout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayout(t *testing.T) {
	agentID := uuid.New()

	t.Run("ValidPayout", func(t *testing.T) {
		p, err := NewPayout(agentID, decimal.NewFromInt(50), "4AdUndXHHZ9pfQj27iMAjAr")
		require.NoError(t, err)

		assert.Equal(t, agentID, p.AgentID)
		assert.Equal(t, StatusPending, p.Status)
		assert.Equal(t, "4AdUndXHHZ9pfQj27iMAjAr", p.DestinationAddress)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Empty(t, p.TxHash)
	})

	t.Run("TrimsDestination", func(t *testing.T) {
		p, err := NewPayout(agentID, decimal.NewFromInt(50), "  addr-1  ")
		require.NoError(t, err)
		assert.Equal(t, "addr-1", p.DestinationAddress)
	})

	t.Run("EmptyDestination", func(t *testing.T) {
		_, err := NewPayout(agentID, decimal.NewFromInt(50), "   ")
		require.ErrorIs(t, err, ErrInvalidDestination)
	})
}

func TestPayout_IsTerminal(t *testing.T) {
	p, err := NewPayout(uuid.New(), decimal.NewFromInt(5), "addr")
	require.NoError(t, err)

	assert.False(t, p.IsTerminal())

	p.Status = StatusCompleted
	assert.True(t, p.IsTerminal())

	p.Status = StatusFailed
	assert.True(t, p.IsTerminal())
}
