// Package heuristic scores fishing positions for the search.
package heuristic

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/game"
)

type Metric int

const (
	Euclidean Metric = iota
	Manhattan
)

func (m Metric) String() string {
	if m == Manhattan {
		return "manhattan"
	}
	return "euclidean"
}

func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	}
	return Euclidean, fmt.Errorf("unknown distance metric %q", s)
}

type Params struct {
	// DistanceExponent is the power the hook-fish distance is raised to.
	// Larger values make the nearest fish dominate.
	DistanceExponent float64
	// ScoreWeight multiplies the score spread.
	ScoreWeight float64
	Metric      Metric
}

func DefaultParams() Params {
	return Params{DistanceExponent: 10, ScoreWeight: 10, Metric: Euclidean}
}

func ParamsFromConfig(cfg *config.Config) (Params, error) {
	metric, err := ParseMetric(cfg.GetString(config.ConfigHeuristicDistanceMetric))
	if err != nil {
		return Params{}, err
	}
	return Params{
		DistanceExponent: cfg.GetFloat64(config.ConfigHeuristicDistanceExponent),
		ScoreWeight:      cfg.GetFloat64(config.ConfigHeuristicScoreWeight),
		Metric:           metric,
	}, nil
}

// Evaluator maps a position to a score from one player's point of view.
// Higher is better for that player.
type Evaluator struct {
	params Params
}

func New(p Params) *Evaluator {
	return &Evaluator{params: p}
}

func (e *Evaluator) Params() Params {
	return e.params
}

func (e *Evaluator) distance(g game.Grid, a, b game.Coord) float64 {
	if e.params.Metric == Manhattan {
		return g.Manhattan(a, b)
	}
	return g.Euclidean(a, b)
}

// Weight is a fish's value discounted by its distance from hook.
func (e *Evaluator) Weight(g game.Grid, hook game.Coord, f game.Fish) float64 {
	if f.Value == 0 {
		return 0
	}
	d := e.distance(g, hook, f.Pos)
	return float64(f.Value) / math.Pow(d, e.params.DistanceExponent)
}

// Evaluate scores s for player. A hook sitting on a fish worth something
// is an immediate capture and scores +Inf. With a single fish left only
// the race for it counts; otherwise the score spread dominates and the
// best weighted fish breaks ties.
func (e *Evaluator) Evaluate(s *game.State, player int) float64 {
	hook := s.Hooks[player]
	if f, ok := s.FishAt(hook); ok && f.Value > 0 {
		return math.Inf(1)
	}
	weights := lo.Map(s.Fish, func(f game.Fish, _ int) float64 {
		return e.Weight(s.Grid, hook, f)
	})
	if len(weights) == 1 {
		return weights[0]
	}
	best := 0.0
	if len(weights) > 0 {
		best = lo.Max(weights)
	}
	return e.params.ScoreWeight*float64(s.Spread(player)) + best
}
