// Package search picks a move for the fishing game with depth-limited
// minimax and alpha-beta pruning, run under iterative deepening against a
// per-turn deadline.
package search

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/domino14/fishderby/fingerprint"
	"github.com/domino14/fishderby/game"
)

/*
function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if β ≤ α then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if β ≤ α then
                break (* α cut-off *)
        return value
*/

const (
	DefaultTimeLimit  = 75 * time.Millisecond
	DefaultTimeMargin = 15 * time.Millisecond
	DefaultMaxDepth   = 64
)

// ErrBudgetExceeded unwinds a search that ran past its deadline. The
// driver catches it; it never leaves ChooseMove.
var ErrBudgetExceeded = errors.New("search budget exceeded")

// Evaluator scores a position from player's point of view.
type Evaluator interface {
	Evaluate(s *game.State, player int) float64
}

// Solver owns everything that outlives a single turn: the rules, the
// evaluator and the transposition cache. It is not safe for concurrent
// use; run one Solver per game.
type Solver struct {
	rules     game.Rules
	evaluator Evaluator
	cache     *TranspositionCache
	policy    CachePolicy
	hasher    fingerprint.Hasher

	timeLimit            time.Duration
	timeMargin           time.Duration
	checkDeadline        bool
	maxDepth             int
	disablePruning       bool
	iterativeDeepeningOn bool

	tree       *Tree
	rootPlayer int

	nodes       int
	evaluations int
}

func NewSolver(rules game.Rules, evaluator Evaluator) *Solver {
	return &Solver{
		rules:                rules,
		evaluator:            evaluator,
		cache:                NewTranspositionCache(0),
		policy:               CacheReference,
		timeLimit:            DefaultTimeLimit,
		timeMargin:           DefaultTimeMargin,
		checkDeadline:        true,
		maxDepth:             DefaultMaxDepth,
		iterativeDeepeningOn: true,
	}
}

// SetTimeLimit sets the per-turn budget and the part of it held back for
// sending the answer.
func (s *Solver) SetTimeLimit(limit, margin time.Duration) {
	s.timeLimit = limit
	s.timeMargin = margin
}

// SetDeadlineCheck turns the deadline check inside the recursion on or
// off. With it off an iteration always runs to completion.
func (s *Solver) SetDeadlineCheck(b bool) {
	s.checkDeadline = b
}

func (s *Solver) SetMaxDepth(d int) {
	s.maxDepth = d
}

func (s *Solver) SetCachePolicy(p CachePolicy) {
	s.policy = p
}

// SetCache replaces the transposition cache, for instance with a bounded
// one.
func (s *Solver) SetCache(c *TranspositionCache) {
	s.cache = c
}

func (s *Solver) SetPruningDisabled(b bool) {
	s.disablePruning = b
}

// SetIterativeDeepening off makes ChooseMove search once, at the maximum
// depth.
func (s *Solver) SetIterativeDeepening(b bool) {
	s.iterativeDeepeningOn = b
}

func (s *Solver) Cache() *TranspositionCache {
	return s.cache
}

func (s *Solver) CachePolicy() CachePolicy {
	return s.policy
}

// Tree is the search tree of the last ChooseMove call.
func (s *Solver) Tree() *Tree {
	return s.tree
}

// NewGame forgets everything learned in a previous game.
func (s *Solver) NewGame() {
	s.cache.Clear()
	s.tree = nil
}

// alphabeta returns the minimax value of node id searched depth plies
// deep, always from the root player's point of view. side is the player to
// move at id.
func (s *Solver) alphabeta(ctx context.Context, id NodeID, depth int, side int,
	α, β float64) (float64, error) {

	if s.checkDeadline && ctx.Err() != nil {
		return 0, ErrBudgetExceeded
	}
	s.nodes++
	state := s.tree.State(id)

	var key fingerprint.Key
	alphaOrig, betaOrig := α, β
	if s.policy != CacheOff {
		key = s.hasher.Key(state)
		if e, ok := s.cache.Lookup(key); ok {
			if s.policy == CacheReference {
				return e.Score, nil
			}
			if e.Depth >= depth && e.Side == side && e.Spread == state.Spread(s.rootPlayer) {
				switch e.flag {
				case ttExact:
					return e.Score, nil
				case ttLower:
					α = max(α, e.Score)
				case ttUpper:
					β = min(β, e.Score)
				}
				if β <= α {
					return e.Score, nil
				}
			}
		}
	}

	var value float64
	var children []NodeID
	leaf := depth == 0
	if !leaf {
		children = s.tree.Children(id)
		leaf = len(children) == 0
	}
	if leaf {
		s.evaluations++
		value = s.evaluator.Evaluate(state, s.rootPlayer)
	} else if side == s.rootPlayer {
		value = math.Inf(-1)
		for _, child := range children {
			v, err := s.alphabeta(ctx, child, depth-1, game.Opponent(side), α, β)
			if err != nil {
				return 0, err
			}
			value = max(value, v)
			α = max(α, value)
			if β <= α && !s.disablePruning {
				break // β cut-off
			}
		}
	} else {
		value = math.Inf(1)
		for _, child := range children {
			v, err := s.alphabeta(ctx, child, depth-1, game.Opponent(side), α, β)
			if err != nil {
				return 0, err
			}
			value = min(value, v)
			β = min(β, value)
			if β <= α && !s.disablePruning {
				break // α cut-off
			}
		}
	}
	s.tree.setValue(id, value)

	if s.policy != CacheOff {
		entry := CacheEntry{
			Score:  value,
			Depth:  depth,
			Side:   side,
			Spread: state.Spread(s.rootPlayer),
			flag:   ttExact,
		}
		switch {
		case leaf:
			// evaluations are exact
		case value <= alphaOrig:
			entry.flag = ttUpper
		case value >= betaOrig:
			entry.flag = ttLower
		}
		s.cache.Store(key, entry)
	}
	return value, nil
}
