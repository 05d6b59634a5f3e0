// Package automatic plays engines against each other on dealt positions.
// It is used to compare heuristic settings before they go to a real game
// server.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/fishderby/bot"
	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/game"
	"github.com/domino14/fishderby/stats"
	"github.com/domino14/fishderby/store"
)

// Player answers turn messages the same way a bot answers the game server.
// Both *bot.Bot and *bot.Client are players.
type Player interface {
	Decide(ctx context.Context, msg *game.Message) (bot.Response, error)
}

// GameResult is the outcome of one self-play game.
type GameResult struct {
	GameID string
	Scores [game.NumPlayers]int
	Turns  int
}

// Spread is player 0's score minus player 1's.
func (g GameResult) Spread() int { return g.Scores[0] - g.Scores[1] }

// GameRunner deals positions and plays them out between two players.
type GameRunner struct {
	players  [game.NumPlayers]Player
	grid     game.Grid
	numFish  int
	maxValue int
	maxTurns int
	swim     bool

	rng       *frand.RNG
	logchan   chan string
	decisions *stats.Decisions
}

// NewGameRunner sets up a runner with the self-play settings of cfg. Game
// results are written to logchan as CSV lines if it is not nil.
func NewGameRunner(logchan chan string, cfg *config.Config, players [game.NumPlayers]Player) *GameRunner {
	return &GameRunner{
		players: players,
		grid: game.Grid{
			Width:  cfg.GetInt(config.ConfigGridWidth),
			Height: cfg.GetInt(config.ConfigGridHeight),
		},
		numFish:   cfg.GetInt(config.ConfigSelfplayFish),
		maxValue:  cfg.GetInt(config.ConfigSelfplayMaxValue),
		maxTurns:  cfg.GetInt(config.ConfigSelfplayMaxTurns),
		swim:      cfg.GetBool(config.ConfigSelfplaySwim),
		rng:       frand.New(),
		logchan:   logchan,
		decisions: &stats.Decisions{},
	}
}

// Seed makes the next deals deterministic.
func (r *GameRunner) Seed(seed [32]byte) {
	r.rng = frand.NewCustom(seed[:], 1024, 12)
}

// Decisions summarises the searches of every engine player over all games
// this runner played.
func (r *GameRunner) Decisions() *stats.Decisions { return r.decisions }

// PlayGame deals a position and plays it until the water is empty or the
// ply limit is reached.
func (r *GameRunner) PlayGame(ctx context.Context) (GameResult, error) {
	s := game.DealState(r.rng, r.grid, r.numFish, r.maxValue)
	res := GameResult{GameID: store.NewGameID()}
	for !s.Terminal() && res.Turns < r.maxTurns {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		next, err := r.playTurn(ctx, s)
		if err != nil {
			return res, fmt.Errorf("game %s turn %d: %w", res.GameID, res.Turns, err)
		}
		s = next
		res.Turns++
	}
	res.Scores = s.Scores
	r.endGame()

	log.Debug().Str("game-id", res.GameID).Ints("scores", res.Scores[:]).
		Int("turns", res.Turns).Msg("selfplay-game-over")
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%s,%d,%d,%d\n", res.GameID, res.Scores[0], res.Scores[1], res.Turns)
	}
	return res, nil
}

func (r *GameRunner) playTurn(ctx context.Context, s *game.State) (*game.State, error) {
	resp, err := r.players[s.Turn].Decide(ctx, game.MessageFromState(s))
	if err != nil {
		return nil, err
	}
	m, err := game.ParseMove(resp.Action)
	if err != nil {
		return nil, err
	}
	next := game.Apply(s, m)
	// Fish swim once both players have moved.
	if r.swim && next.Turn == 0 {
		r.swimFish(next)
	}
	return next, nil
}

// swimFish moves every free fish one random step. Fish stay below the
// surface; a fish that would leave the water stays put.
func (r *GameRunner) swimFish(s *game.State) {
	for i := range s.Fish {
		f := &s.Fish[i]
		if f.ID == s.Caught[0] || f.ID == s.Caught[1] {
			continue
		}
		dx, dy := game.AllMoves[r.rng.Intn(len(game.AllMoves))].Delta()
		y := f.Pos.Y + dy
		if y < 0 || y >= s.Grid.Surface() {
			continue
		}
		f.Pos = game.Coord{X: s.Grid.Wrap(f.Pos.X + dx), Y: y}
	}
}

// endGame collects the players' search statistics and resets them.
func (r *GameRunner) endGame() {
	for _, p := range r.players {
		if b, ok := p.(*bot.Bot); ok {
			r.decisions.Merge(b.Decisions())
			b.EndGame()
		}
	}
}
