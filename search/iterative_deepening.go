package search

import (
	"context"
	"errors"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/fishderby/game"
)

type Stats struct {
	Nodes        int
	Evaluations  int
	TreeSize     int
	CacheLookups uint64
	CacheHits    uint64
	Elapsed      time.Duration
}

// Result is the decision for one turn.
type Result struct {
	Move game.Move
	// Score is the value of Move at Depth, from the mover's point of view.
	Score float64
	// Depth is the deepest iteration that completed; 0 if none did.
	Depth    int
	TimedOut bool
	Stats    Stats
}

// sortByScore reorders root children best first. The sort is stable so
// equal scores keep their relative order.
func sortByScore(order []NodeID, scores []float64) {
	idx := make([]int, len(order))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	sorted := make([]NodeID, len(order))
	for i, j := range idx {
		sorted[i] = order[j]
	}
	copy(order, sorted)
}

func argmax(scores []float64) int {
	best := 0
	for i, v := range scores {
		if v > scores[best] {
			best = i
		}
	}
	return best
}

// ChooseMove searches root for the player on turn and returns the best move
// of the last fully completed iteration. It always returns a legal move:
// Stay when there are no children, otherwise the best child scored by an
// unfinished first iteration or, failing that, the first child.
func (s *Solver) ChooseMove(ctx context.Context, root *game.State) (Result, error) {
	if err := root.Validate(); err != nil {
		return Result{Move: game.Stay}, err
	}
	tstart := time.Now()
	ctx, cancel := context.WithDeadline(ctx, tstart.Add(s.timeLimit-s.timeMargin))
	defer cancel()

	s.tree = NewTree(s.rules, root)
	s.rootPlayer = root.Turn
	s.nodes = 0
	s.evaluations = 0
	lookups, hits := s.cache.Lookups(), s.cache.Hits()

	res := Result{Move: game.Stay}
	finish := func() Result {
		res.Stats = Stats{
			Nodes:        s.nodes,
			Evaluations:  s.evaluations,
			TreeSize:     s.tree.Len(),
			CacheLookups: s.cache.Lookups() - lookups,
			CacheHits:    s.cache.Hits() - hits,
			Elapsed:      time.Since(tstart),
		}
		log.Debug().
			Str("move", res.Move.String()).
			Float64("score", res.Score).
			Int("depth", res.Depth).
			Bool("timed-out", res.TimedOut).
			Int("nodes", res.Stats.Nodes).
			Int("evaluations", res.Stats.Evaluations).
			Uint64("cache-lookups", res.Stats.CacheLookups).
			Uint64("cache-hits", res.Stats.CacheHits).
			Int("cache-size", s.cache.Len()).
			Dur("elapsed", res.Stats.Elapsed).
			Msg("choose-move-returning")
		return res
	}

	children := s.tree.Children(s.tree.Root())
	if len(children) == 0 {
		return finish(), nil
	}
	res.Move = s.tree.Move(children[0])

	first := 1
	if !s.iterativeDeepeningOn {
		first = s.maxDepth
	}
	opponent := game.Opponent(s.rootPlayer)
	// Root children in search order. Each completed iteration sorts them
	// by score, so the previous best is searched first and wins ties.
	order := slices.Clone(children)
	scores := make([]float64, 0, len(order))

	for depth := first; depth <= s.maxDepth; depth++ {
		// The first iteration always starts; the recursion aborts it if the
		// deadline has already passed.
		if depth > first && ctx.Err() != nil {
			res.TimedOut = true
			break
		}
		scores = scores[:0]
		var err error
		for _, child := range order {
			var v float64
			v, err = s.alphabeta(ctx, child, depth, opponent, math.Inf(-1), math.Inf(1))
			if err != nil {
				break
			}
			scores = append(scores, v)
		}
		if errors.Is(err, ErrBudgetExceeded) {
			res.TimedOut = true
			if res.Depth == 0 && len(scores) > 0 {
				best := argmax(scores)
				res.Move = s.tree.Move(order[best])
				res.Score = scores[best]
			}
			log.Debug().Int("depth", depth).Int("children-scored", len(scores)).
				Msg("iteration-abandoned")
			break
		} else if err != nil {
			return finish(), err
		}
		best := argmax(scores)
		res.Move = s.tree.Move(order[best])
		res.Score = scores[best]
		res.Depth = depth
		log.Debug().Int("depth", depth).Str("best", res.Move.String()).
			Float64("score", res.Score).Int("nodes", s.nodes).
			Msg("iteration-complete")
		sortByScore(order, scores)
	}
	return finish(), nil
}
