package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const NumPlayers = 2

// NoFish marks a player that has nothing on the hook.
const NoFish = -1

var ErrInvalidState = errors.New("invalid game state")

type Fish struct {
	ID    int
	Pos   Coord
	Value int
}

// State is a snapshot of the game for one turn. Search code treats it as
// immutable; successors are built on copies.
type State struct {
	Grid   Grid
	Hooks  [NumPlayers]Coord
	Fish   []Fish // sorted by ID
	Scores [NumPlayers]int
	Caught [NumPlayers]int
	// Turn is the player to move.
	Turn     int
	GameOver bool
}

// Opponent returns the other player's index.
func Opponent(player int) int {
	return 1 - player
}

// NewState returns a state with no fish caught. Fish are sorted by ID.
func NewState(grid Grid, hooks [NumPlayers]Coord, fish []Fish, turn int) *State {
	s := &State{
		Grid:   grid,
		Hooks:  hooks,
		Fish:   append([]Fish(nil), fish...),
		Caught: [NumPlayers]int{NoFish, NoFish},
		Turn:   turn,
	}
	sort.Slice(s.Fish, func(i, j int) bool { return s.Fish[i].ID < s.Fish[j].ID })
	return s
}

func (s *State) Copy() *State {
	c := *s
	c.Fish = append([]Fish(nil), s.Fish...)
	return &c
}

// FishIndex returns the index of the fish with the given ID in s.Fish, or
// -1 if it is gone.
func (s *State) FishIndex(id int) int {
	i := sort.Search(len(s.Fish), func(i int) bool { return s.Fish[i].ID >= id })
	if i < len(s.Fish) && s.Fish[i].ID == id {
		return i
	}
	return -1
}

// FishAt returns the fish occupying c, if any.
func (s *State) FishAt(c Coord) (Fish, bool) {
	for _, f := range s.Fish {
		if f.Pos == c {
			return f, true
		}
	}
	return Fish{}, false
}

// Terminal is true once the game is over or the water is empty.
func (s *State) Terminal() bool {
	return s.GameOver || len(s.Fish) == 0
}

// Spread is player's score minus the opponent's.
func (s *State) Spread(player int) int {
	return s.Scores[player] - s.Scores[Opponent(player)]
}

// Validate checks the invariants the search relies on.
func (s *State) Validate() error {
	if s.Grid.Width <= 0 || s.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidState, s.Grid.Width, s.Grid.Height)
	}
	if s.Turn < 0 || s.Turn >= NumPlayers {
		return fmt.Errorf("%w: turn %d", ErrInvalidState, s.Turn)
	}
	for p, h := range s.Hooks {
		if !s.Grid.Contains(h) {
			return fmt.Errorf("%w: hook %d at %v is off the grid", ErrInvalidState, p, h)
		}
	}
	for i, f := range s.Fish {
		if i > 0 && s.Fish[i-1].ID >= f.ID {
			return fmt.Errorf("%w: fish not sorted by id", ErrInvalidState)
		}
		if f.Value < 0 {
			return fmt.Errorf("%w: fish %d has negative value %d", ErrInvalidState, f.ID, f.Value)
		}
		if !s.Grid.Contains(f.Pos) {
			return fmt.Errorf("%w: fish %d at %v is off the grid", ErrInvalidState, f.ID, f.Pos)
		}
	}
	for p, id := range s.Caught {
		if id == NoFish {
			continue
		}
		idx := s.FishIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: player %d caught unknown fish %d", ErrInvalidState, p, id)
		}
		if s.Fish[idx].Pos != s.Hooks[p] {
			return fmt.Errorf("%w: caught fish %d is not on hook %d", ErrInvalidState, id, p)
		}
	}
	return nil
}

func (s *State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<state turn=%d hooks=%v,%v scores=%d-%d fish=[",
		s.Turn, s.Hooks[0], s.Hooks[1], s.Scores[0], s.Scores[1])
	for i, f := range s.Fish {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d:%v=%d", f.ID, f.Pos, f.Value)
	}
	sb.WriteString("]>")
	return sb.String()
}
