package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/is"

	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/game"
	"github.com/domino14/fishderby/search"
	"github.com/domino14/fishderby/store"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchTimeLimit, 30*time.Millisecond)
	cfg.Set(config.ConfigSearchTimeMargin, 5*time.Millisecond)
	return cfg
}

func newTestBot(t *testing.T, cfg *config.Config, rec store.Recorder) *Bot {
	t.Helper()
	solver, err := search.NewSolverFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewBot(cfg, solver, rec)
}

func turnJSON(t *testing.T, s *game.State) string {
	t.Helper()
	data, err := json.Marshal(game.MessageFromState(s))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func position() *game.State {
	return game.NewState(game.DefaultGrid(),
		[game.NumPlayers]game.Coord{{X: 5, Y: 10}, {X: 15, Y: 19}},
		[]game.Fish{
			{ID: 0, Pos: game.Coord{X: 5, Y: 9}, Value: 5},
			{ID: 1, Pos: game.Coord{X: 12, Y: 3}, Value: 2},
		}, 0)
}

func TestRunOverStdio(t *testing.T) {
	is := is.New(t)
	dbPath := filepath.Join(t.TempDir(), "decisions.db")
	rec, err := store.Open(dbPath)
	is.NoErr(err)
	defer rec.Close()

	cfg := testConfig()
	dotPath := filepath.Join(t.TempDir(), "tree.dot")
	cfg.Set(config.ConfigDotPath, dotPath)
	b := newTestBot(t, cfg, rec)
	gameID := b.GameID()

	s := position()
	// player 0 hooks the fish and the opponent stays put
	next := game.Apply(game.Apply(s, game.Down), game.Stay)
	input := strings.Join([]string{
		`{"handshake": true}`,
		turnJSON(t, s),
		"",
		turnJSON(t, next),
		`{"game_over": true}`,
	}, "\n")
	var out bytes.Buffer
	is.NoErr(b.Run(context.Background(), NewStdioProvider(strings.NewReader(input), &out)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	is.Equal(len(lines), 2)
	var first Response
	is.NoErr(json.Unmarshal([]byte(lines[0]), &first))
	is.Equal(first.Action, "down")
	is.True(first.SearchTime > 0)

	ds, err := rec.Decisions(context.Background(), gameID)
	is.NoErr(err)
	is.Equal(len(ds), 2)
	is.Equal(ds[0].Move, "down")
	is.Equal(ds[1].Turn, 1)
	is.Equal(ds[1].Move, "up")
	is.True(strings.Contains(ds[0].State, "hooks_positions"))

	dot, err := os.ReadFile(dotPath)
	is.NoErr(err)
	is.True(bytes.HasPrefix(dot, []byte("digraph")))

	// the game is over; the next one gets a fresh id
	is.True(b.GameID() != gameID)
}

func TestRunStopsAtEOF(t *testing.T) {
	is := is.New(t)
	b := newTestBot(t, testConfig(), nil)
	input := `{"handshake": true}` + "\n" + turnJSON(t, position()) + "\n"
	var out bytes.Buffer
	is.NoErr(b.Run(context.Background(), NewStdioProvider(strings.NewReader(input), &out)))
	is.Equal(strings.Count(out.String(), "\n"), 1)
	is.Equal(b.Decisions().Turns(), 1)
}

func TestRunRejectsMalformedState(t *testing.T) {
	is := is.New(t)
	b := newTestBot(t, testConfig(), nil)
	input := "{}\n" + `{"hooks_positions": {"0": [1, 19]}}` + "\n"
	err := b.Run(context.Background(), NewStdioProvider(strings.NewReader(input), io.Discard))
	is.True(errors.Is(err, game.ErrMalformedMessage))

	input = "{}\nnot json\n"
	err = b.Run(context.Background(), NewStdioProvider(strings.NewReader(input), io.Discard))
	is.True(errors.Is(err, game.ErrMalformedMessage))
}

func TestHandle(t *testing.T) {
	is := is.New(t)
	b := newTestBot(t, testConfig(), nil)
	ctx := context.Background()

	resp := b.handle(ctx, []byte(turnJSON(t, position())))
	is.Equal(resp.Error, "")
	is.Equal(resp.Action, "down")
	is.Equal(b.LastResult().Move, game.Down)

	id := b.GameID()
	resp = b.handle(ctx, []byte(`{"game_over": true}`))
	is.Equal(resp.Action, "stay")
	is.True(b.GameID() != id)

	resp = b.handle(ctx, []byte(`{"hooks_positions": 3}`))
	is.True(resp.Error != "")
	is.Equal(resp.Action, "stay")
}

func TestRunOverWebsocket(t *testing.T) {
	is := is.New(t)
	upgrader := websocket.Upgrader{}
	answers := make(chan Response, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteJSON(game.MessageFromState(position()))
		var resp Response
		if err := conn.ReadJSON(&resp); err == nil {
			answers <- resp
		}
		conn.WriteJSON(map[string]bool{"game_over": true})
		// wait for the client to hang up
		conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p, err := DialWebsocket(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	is.NoErr(err)
	b := newTestBot(t, testConfig(), nil)
	is.NoErr(b.Run(ctx, p))
	is.NoErr(p.Close())

	resp := <-answers
	is.Equal(resp.Action, "down")
}

func TestDialWebsocketGivesUp(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// nothing listens on port 1
	_, err := DialWebsocket(ctx, "ws://127.0.0.1:1/ws")
	is.True(err != nil)
}
