package search

import (
	"github.com/domino14/fishderby/config"
	"github.com/domino14/fishderby/game"
	"github.com/domino14/fishderby/heuristic"
)

// NewSolverFromConfig builds a solver playing by the standard rules with
// the heuristic and search settings of cfg.
func NewSolverFromConfig(cfg *config.Config) (*Solver, error) {
	params, err := heuristic.ParamsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := ParseCachePolicy(cfg.GetString(config.ConfigSearchCachePolicy))
	if err != nil {
		return nil, err
	}
	s := NewSolver(game.StandardRules{}, heuristic.New(params))
	s.SetTimeLimit(cfg.GetDuration(config.ConfigSearchTimeLimit),
		cfg.GetDuration(config.ConfigSearchTimeMargin))
	s.SetDeadlineCheck(cfg.GetBool(config.ConfigSearchCheckDeadline))
	s.SetMaxDepth(cfg.GetInt(config.ConfigSearchMaxDepth))
	s.SetCachePolicy(policy)
	s.SetCache(NewTranspositionCache(
		EntriesForMemory(cfg.GetFloat64(config.ConfigSearchCacheMemoryFraction))))
	return s, nil
}
