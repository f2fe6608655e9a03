package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLSinkSQLiteSendAndRecent(t *testing.T) {
	s, err := NewSQLSinkFromDSN("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, s.Send(ctx, Event{Type: EventAdd, OccurredAt: now, Chain: "daily", Position: 0, Length: 1}))
	require.NoError(t, s.Send(ctx, Event{Type: EventMoveUp, OccurredAt: now, Chain: "daily", Position: 1, Length: 2}))
	require.NoError(t, s.Send(ctx, Event{Type: EventAdd, OccurredAt: now, Chain: "other", Position: 0, Length: 1}))

	got, err := s.Recent(ctx, "daily", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, EventMoveUp, got[0].Type)
	assert.Equal(t, 1, got[0].Position)
	assert.Equal(t, EventAdd, got[1].Type)
	assert.Equal(t, "daily", got[1].Chain)
}

func TestSQLSinkEmptyDSN(t *testing.T) {
	_, err := NewSQLSinkFromDSN("  ")
	assert.Error(t, err)
}

func TestNopSink(t *testing.T) {
	var s Sink = Nop{}
	assert.NoError(t, s.Send(context.Background(), Event{Type: EventSave}))
}
