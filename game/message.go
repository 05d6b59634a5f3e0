package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

var ErrMalformedMessage = errors.New("malformed turn message")

// Message is the turn update sent by the game server. Keys of the maps are
// player indices or fish IDs.
type Message struct {
	HooksPositions  map[int][2]int `json:"hooks_positions"`
	FishesPositions map[int][2]int `json:"fishes_positions"`
	FishScores      map[int]int    `json:"fish_scores"`
	PlayerScores    map[int]int    `json:"player_scores"`
	CaughtFish      map[int]*int   `json:"caught_fish"`
	GameOver        bool           `json:"game_over"`
}

// ToState builds the root search state from a turn message. turn is the
// player the engine moves for.
func (m *Message) ToState(grid Grid, turn int) (*State, error) {
	var hooks [NumPlayers]Coord
	for p := 0; p < NumPlayers; p++ {
		pos, ok := m.HooksPositions[p]
		if !ok {
			return nil, fmt.Errorf("%w: no hook position for player %d", ErrMalformedMessage, p)
		}
		hooks[p] = Coord{X: pos[0], Y: pos[1]}
	}

	ids := lo.Keys(m.FishesPositions)
	sort.Ints(ids)
	fish := make([]Fish, 0, len(ids))
	for _, id := range ids {
		value, ok := m.FishScores[id]
		if !ok {
			return nil, fmt.Errorf("%w: no score for fish %d", ErrMalformedMessage, id)
		}
		pos := m.FishesPositions[id]
		fish = append(fish, Fish{ID: id, Pos: Coord{X: pos[0], Y: pos[1]}, Value: value})
	}

	s := NewState(grid, hooks, fish, turn)
	for p := 0; p < NumPlayers; p++ {
		s.Scores[p] = m.PlayerScores[p]
		if id := m.CaughtFish[p]; id != nil {
			s.Caught[p] = *id
		}
	}
	s.GameOver = m.GameOver
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return s, nil
}

// MessageFromState is the inverse of ToState. The local game runner uses it
// to talk to engines the same way the game server does.
func MessageFromState(s *State) *Message {
	m := &Message{
		HooksPositions:  make(map[int][2]int, NumPlayers),
		FishesPositions: make(map[int][2]int, len(s.Fish)),
		FishScores:      make(map[int]int, len(s.Fish)),
		PlayerScores:    make(map[int]int, NumPlayers),
		CaughtFish:      make(map[int]*int, NumPlayers),
		GameOver:        s.GameOver,
	}
	for p := 0; p < NumPlayers; p++ {
		m.HooksPositions[p] = [2]int{s.Hooks[p].X, s.Hooks[p].Y}
		m.PlayerScores[p] = s.Scores[p]
		if s.Caught[p] != NoFish {
			id := s.Caught[p]
			m.CaughtFish[p] = &id
		} else {
			m.CaughtFish[p] = nil
		}
	}
	for _, f := range s.Fish {
		m.FishesPositions[f.ID] = [2]int{f.Pos.X, f.Pos.Y}
		m.FishScores[f.ID] = f.Value
	}
	return m
}
