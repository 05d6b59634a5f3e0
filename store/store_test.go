package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *SQLiteLog {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "logs", "decisions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRead(t *testing.T) {
	ctx := context.Background()
	l := openTemp(t)
	game := NewGameID()

	require.NoError(t, l.Record(ctx, Decision{GameID: game, Turn: 1, Player: 0, Move: "down",
		Score: 12.5, Depth: 4, Nodes: 900, Elapsed: 41 * time.Millisecond, State: `{"game_over":false}`}))
	require.NoError(t, l.Record(ctx, Decision{GameID: game, Turn: 0, Player: 0, Move: "stay",
		Depth: 0, TimedOut: true}))
	require.NoError(t, l.Record(ctx, Decision{GameID: NewGameID(), Turn: 0, Move: "up"}))

	ds, err := l.Decisions(ctx, game)
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "stay", ds[0].Move)
	assert.True(t, ds[0].TimedOut)
	assert.Equal(t, "down", ds[1].Move)
	assert.Equal(t, 12.5, ds[1].Score)
	assert.Equal(t, 4, ds[1].Depth)
	assert.Equal(t, 900, ds[1].Nodes)
	assert.Equal(t, 41*time.Millisecond, ds[1].Elapsed)
	assert.Equal(t, `{"game_over":false}`, ds[1].State)
	assert.False(t, ds[1].CreatedAt.IsZero())

	games, err := l.Games(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 2)
	assert.Equal(t, game, games[0])
}

func TestConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	l := openTemp(t)
	game := NewGameID()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(turn int) {
			defer wg.Done()
			assert.NoError(t, l.Record(ctx, Decision{GameID: game, Turn: turn, Move: "left"}))
		}(i)
	}
	wg.Wait()
	ds, err := l.Decisions(ctx, game)
	require.NoError(t, err)
	assert.Len(t, ds, 8)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.Record(context.Background(), Decision{}))
}
