// Package store keeps a log of the engine's decisions in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Decision is one move chosen by the engine, with what the search knew
// when it chose it.
type Decision struct {
	GameID   string
	Turn     int
	Player   int
	Move     string
	Score    float64
	Depth    int
	TimedOut bool
	Nodes    int
	Elapsed  time.Duration
	// State is the turn message the decision was made from, as JSON.
	State     string
	CreatedAt time.Time
}

type Recorder interface {
	Record(ctx context.Context, d Decision) error
}

// Nop discards decisions.
type Nop struct{}

func (Nop) Record(context.Context, Decision) error { return nil }

func NewGameID() string {
	return uuid.NewString()
}

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	turn INTEGER NOT NULL,
	player INTEGER NOT NULL,
	move TEXT NOT NULL,
	score REAL,
	depth INTEGER,
	timed_out INTEGER,
	nodes INTEGER,
	elapsed_us INTEGER,
	state TEXT,
	created_at INTEGER
);
CREATE INDEX IF NOT EXISTS decisions_game ON decisions (game_id, turn);
`

// SQLiteLog records decisions in a SQLite file. It is safe for concurrent
// use.
type SQLiteLog struct {
	db *sql.DB
}

func Open(path string) (*SQLiteLog, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; SQLite would otherwise answer SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("decision-log-opened")
	return &SQLiteLog{db: db}, nil
}

func (l *SQLiteLog) Record(ctx context.Context, d Decision) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO decisions (game_id, turn, player, move, score, depth,
			timed_out, nodes, elapsed_us, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.GameID, d.Turn, d.Player, d.Move, d.Score, d.Depth,
		d.TimedOut, d.Nodes, d.Elapsed.Microseconds(), d.State,
		d.CreatedAt.UnixNano())
	return err
}

// Decisions returns the decisions of a game in turn order.
func (l *SQLiteLog) Decisions(ctx context.Context, gameID string) ([]Decision, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT game_id, turn, player, move, score, depth, timed_out, nodes,
			elapsed_us, state, created_at
		FROM decisions WHERE game_id = ? ORDER BY turn, id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		var elapsedUs, created int64
		if err := rows.Scan(&d.GameID, &d.Turn, &d.Player, &d.Move, &d.Score,
			&d.Depth, &d.TimedOut, &d.Nodes, &elapsedUs, &d.State, &created); err != nil {
			return nil, err
		}
		d.Elapsed = time.Duration(elapsedUs) * time.Microsecond
		d.CreatedAt = time.Unix(0, created)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Games lists the ids of all logged games.
func (l *SQLiteLog) Games(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT game_id FROM decisions GROUP BY game_id ORDER BY MIN(id)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
