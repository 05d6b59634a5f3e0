package automatic

// Engine vs engine games, played in parallel.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/fishderby/bot"
	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/game"
	"github.com/domino14/fishderby/search"
	"github.com/domino14/fishderby/stats"
	"github.com/domino14/fishderby/store"
)

var (
	GamesPlayed *expvar.Int
	IsPlaying   *expvar.Int
)

func init() {
	GamesPlayed = expvar.NewInt("selfplayGames")
	IsPlaying = expvar.NewInt("isPlaying")
}

const logHeader = "gameID,p0score,p1score,turns\n"

// PlayerFactory builds the pair of players one worker uses for all its
// games.
type PlayerFactory func() ([game.NumPlayers]Player, error)

// EnginePlayers builds two engine bots configured by cfg, one per seat.
func EnginePlayers(cfg *config.Config, recorder store.Recorder) PlayerFactory {
	return func() ([game.NumPlayers]Player, error) {
		var players [game.NumPlayers]Player
		for p := range players {
			solver, err := search.NewSolverFromConfig(cfg)
			if err != nil {
				return players, err
			}
			b := bot.NewBot(cfg, solver, recorder)
			b.SetPlayer(p)
			players[p] = b
		}
		return players, nil
	}
}

// Summary aggregates self-play outcomes.
type Summary struct {
	Games int
	Wins  [game.NumPlayers]int
	Ties  int
	// Spread is player 0's final score minus player 1's.
	Spread    stats.Running
	Turns     stats.Running
	Decisions *stats.Decisions
}

func NewSummary() *Summary {
	return &Summary{Decisions: &stats.Decisions{}}
}

func (s *Summary) Add(g GameResult) {
	s.Games++
	switch sp := g.Spread(); {
	case sp > 0:
		s.Wins[0]++
	case sp < 0:
		s.Wins[1]++
	default:
		s.Ties++
	}
	s.Spread.Add(float64(g.Spread()))
	s.Turns.Add(float64(g.Turns))
}

func (s *Summary) WriteReport(w io.Writer) error {
	if s.Games == 0 {
		_, err := fmt.Fprintln(w, "no games played")
		return err
	}
	pct := func(n int) float64 { return 100 * float64(n) / float64(s.Games) }
	lo, hi := s.Spread.ConfidenceInterval(95)
	_, err := fmt.Fprintf(w,
		"games: %d\n"+
			"p0 wins: %d (%.1f%%)  p1 wins: %d (%.1f%%)  ties: %d (%.1f%%)\n"+
			"spread: mean %.2f (95%% CI %.2f to %.2f) stdev %.2f\n"+
			"turns: mean %.1f max %.0f\n\n",
		s.Games,
		s.Wins[0], pct(s.Wins[0]), s.Wins[1], pct(s.Wins[1]), s.Ties, pct(s.Ties),
		s.Spread.Mean(), lo, hi, s.Spread.Stdev(),
		s.Turns.Mean(), s.Turns.Max())
	if err != nil {
		return err
	}
	if s.Decisions == nil {
		return nil
	}
	return s.Decisions.WriteReport(w)
}

// StartCompVCompGames plays the configured number of games on the
// configured number of workers and returns once all are done. When seeds
// are given, game i deals from seeds[i%len(seeds)].
func StartCompVCompGames(ctx context.Context, cfg *config.Config,
	newPlayers PlayerFactory, seeds [][32]byte) (*Summary, error) {

	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	numGames := cfg.GetInt(config.ConfigSelfplayGames)
	threads := cfg.GetInt(config.ConfigSelfplayThreads)

	var logfile io.Writer = io.Discard
	if fn := cfg.GetString(config.ConfigSelfplayLog); fn != "" {
		f, err := os.Create(fn)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		logfile = f
	}
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	summary := NewSummary()
	var mu sync.Mutex
	jobs := make(chan int)
	logChan := make(chan string, 100)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < numGames; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
		}
		log.Info().Msg("Finished queueing all jobs.")
		return nil
	})

	var workers sync.WaitGroup
	for w := 0; w < threads; w++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			players, err := newPlayers()
			if err != nil {
				return err
			}
			r := NewGameRunner(logChan, cfg, players)
			for i := range jobs {
				if len(seeds) > 0 {
					r.Seed(seeds[i%len(seeds)])
				}
				res, err := r.PlayGame(gctx)
				if err != nil {
					return err
				}
				mu.Lock()
				summary.Add(res)
				mu.Unlock()
				GamesPlayed.Add(1)
			}
			mu.Lock()
			summary.Decisions.Merge(r.Decisions())
			mu.Unlock()
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(logChan)
	}()

	g.Go(func() error {
		var err error
		_, err = io.WriteString(logfile, logHeader)
		for msg := range logChan {
			if err == nil {
				_, err = io.WriteString(logfile, msg)
			}
		}
		log.Info().Msg("Exiting game logger goroutine!")
		return err
	})

	if err := g.Wait(); err != nil {
		return summary, err
	}
	log.Info().Int("games", summary.Games).Msg("All games finished.")
	return summary, nil
}
