// Package bot connects the search engine to a game server: it reads turn
// messages from a Provider, answers each with a move and stops at game
// over.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/game"
	"github.com/domino14/fishderby/search"
	"github.com/domino14/fishderby/stats"
	"github.com/domino14/fishderby/store"
)

// dotDepth limits how much of the tree is dumped; deeper trees are too big
// to render.
const dotDepth = 4

// Response is the answer to one turn message.
type Response struct {
	Action string `json:"action"`
	// SearchTime is the time spent searching, in seconds.
	SearchTime float64 `json:"search_time"`
	Error      string  `json:"error,omitempty"`
}

// Provider delivers turn messages and carries the answers back. Receive
// returns io.EOF once the server has nothing more to send.
type Provider interface {
	Receive(ctx context.Context) (*game.Message, error)
	Send(ctx context.Context, r Response) error
}

type Bot struct {
	solver   *search.Solver
	recorder store.Recorder
	grid     game.Grid
	player   int
	dotPath  string

	gameID    string
	turn      int
	decisions *stats.Decisions
	last      search.Result
}

func NewBot(cfg *config.Config, solver *search.Solver, recorder store.Recorder) *Bot {
	if recorder == nil {
		recorder = store.Nop{}
	}
	b := &Bot{
		solver:   solver,
		recorder: recorder,
		grid: game.Grid{
			Width:  cfg.GetInt(config.ConfigGridWidth),
			Height: cfg.GetInt(config.ConfigGridHeight),
		},
		player:  cfg.GetInt(config.ConfigPlayer),
		dotPath: cfg.GetString(config.ConfigDotPath),
	}
	b.newGame()
	return b
}

func (b *Bot) newGame() {
	b.gameID = store.NewGameID()
	b.turn = 0
	b.decisions = &stats.Decisions{}
	b.solver.NewGame()
}

func (b *Bot) GameID() string { return b.gameID }

// SetPlayer changes the player index the bot moves for.
func (b *Bot) SetPlayer(player int) { b.player = player }

// Decisions summarises the searches of the current game.
func (b *Bot) Decisions() *stats.Decisions { return b.decisions }

// LastResult is the search result behind the last answer.
func (b *Bot) LastResult() search.Result { return b.last }

// Decide picks the move for one turn message. A message that does not
// describe a valid position is an error; the engine has no sensible answer
// to it.
func (b *Bot) Decide(ctx context.Context, msg *game.Message) (Response, error) {
	state, err := msg.ToState(b.grid, b.player)
	if err != nil {
		return Response{}, err
	}
	res, err := b.solver.ChooseMove(ctx, state)
	if err != nil {
		return Response{}, err
	}
	b.last = res
	b.decisions.Add(res.Depth, res.Stats.Nodes, res.Stats.Elapsed, res.TimedOut)

	log.Info().Int("turn", b.turn).Str("move", res.Move.String()).
		Int("depth", res.Depth).Bool("timed-out", res.TimedOut).
		Msg("move-chosen")

	b.record(ctx, msg, res)
	b.dumpTree()
	b.turn++
	return Response{Action: res.Move.String(), SearchTime: res.Stats.Elapsed.Seconds()}, nil
}

func (b *Bot) record(ctx context.Context, msg *game.Message, res search.Result) {
	state, err := json.Marshal(msg)
	if err != nil {
		log.Err(err).Msg("marshal-state")
	}
	err = b.recorder.Record(ctx, store.Decision{
		GameID:   b.gameID,
		Turn:     b.turn,
		Player:   b.player,
		Move:     res.Move.String(),
		Score:    res.Score,
		Depth:    res.Depth,
		TimedOut: res.TimedOut,
		Nodes:    res.Stats.Nodes,
		Elapsed:  res.Stats.Elapsed,
		State:    string(state),
	})
	if err != nil {
		// The log is best-effort; the move still goes out.
		log.Err(err).Msg("record-decision")
	}
}

func (b *Bot) dumpTree() {
	if b.dotPath == "" || b.solver.Tree() == nil {
		return
	}
	f, err := os.Create(b.dotPath)
	if err != nil {
		log.Err(err).Msg("create-dot-file")
		return
	}
	defer f.Close()
	if err := b.solver.Tree().WriteDot(f, dotDepth); err != nil {
		log.Err(err).Msg("write-dot-file")
	}
}

// EndGame logs a summary of the game and resets for the next one.
func (b *Bot) EndGame() {
	if b.turn > 0 {
		var sb strings.Builder
		if err := b.decisions.WriteReport(&sb); err == nil {
			log.Debug().Str("game-id", b.gameID).Msg("game-summary:\n" + sb.String())
		}
	}
	log.Info().Str("game-id", b.gameID).Int("turns", b.turn).Msg("game-over")
	b.newGame()
}

// Run answers turn messages from p until the game is over, p runs dry or
// ctx is cancelled.
func (b *Bot) Run(ctx context.Context, p Provider) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := p.Receive(ctx)
		if errors.Is(err, io.EOF) {
			log.Info().Msg("provider-closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("receiving turn: %w", err)
		}
		if msg.GameOver {
			b.EndGame()
			return nil
		}
		resp, err := b.Decide(ctx, msg)
		if err != nil {
			return fmt.Errorf("turn %d: %w", b.turn, err)
		}
		if err := p.Send(ctx, resp); err != nil {
			return fmt.Errorf("sending move: %w", err)
		}
	}
}
