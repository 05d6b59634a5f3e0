package game

// Successor is a state reachable in one ply together with the move that
// produced it.
type Successor struct {
	Move  Move
	State *State
}

// Rules generates the successors of a state for the player on turn. An
// empty result means the state is a leaf.
type Rules interface {
	Successors(s *State) []Successor
}

// StandardRules is the engine's look-ahead model of the fishing game. The
// game server stays authoritative; fish do not swim during look-ahead.
//
//   - a hook moves one cell per turn; columns wrap, rows do not
//   - two hooks never share a column (the boats cannot pass each other)
//   - a hook that reaches an uncaught fish catches it
//   - a caught fish can only be reeled up, and scores once it reaches the
//     surface
type StandardRules struct{}

func (r StandardRules) Successors(s *State) []Successor {
	if s.Terminal() {
		return nil
	}
	moves := r.LegalMoves(s)
	succ := make([]Successor, 0, len(moves))
	for _, m := range moves {
		succ = append(succ, Successor{Move: m, State: Apply(s, m)})
	}
	return succ
}

// LegalMoves lists the moves available to the player on turn, in AllMoves
// order. Moves that would leave the hook where it is are collapsed into
// Stay.
func (r StandardRules) LegalMoves(s *State) []Move {
	if s.Terminal() {
		return nil
	}
	p := s.Turn
	if s.Caught[p] != NoFish {
		if s.Hooks[p].Y >= s.Grid.Surface() {
			return []Move{Stay}
		}
		return []Move{Up}
	}
	moves := make([]Move, 0, len(AllMoves))
	moves = append(moves, Stay)
	for _, m := range AllMoves[1:] {
		if dest, ok := destination(s, p, m); ok && dest != s.Hooks[p] {
			moves = append(moves, m)
		}
	}
	return moves
}

func destination(s *State, player int, m Move) (Coord, bool) {
	dx, dy := m.Delta()
	hook := s.Hooks[player]
	dest := Coord{X: s.Grid.Wrap(hook.X + dx), Y: hook.Y + dy}
	if dest.Y < 0 || dest.Y > s.Grid.Surface() {
		return hook, false
	}
	if dx != 0 && dest.X == s.Hooks[Opponent(player)].X {
		return hook, false
	}
	return dest, true
}

// Apply plays m for the player on turn and returns the new state. s is
// left untouched. Illegal moves leave the hook in place.
func Apply(s *State, m Move) *State {
	n := s.Copy()
	p := s.Turn
	if dest, ok := destination(s, p, m); ok {
		if s.Caught[p] == NoFish || m == Up {
			n.Hooks[p] = dest
		}
	}
	hook := n.Hooks[p]

	if n.Caught[p] == NoFish {
		for _, f := range n.Fish {
			if f.Pos == hook && f.ID != n.Caught[Opponent(p)] {
				n.Caught[p] = f.ID
				break
			}
		}
	}
	if id := n.Caught[p]; id != NoFish {
		idx := n.FishIndex(id)
		n.Fish[idx].Pos = hook
		if hook.Y >= n.Grid.Surface() {
			n.Scores[p] += n.Fish[idx].Value
			n.Fish = append(n.Fish[:idx], n.Fish[idx+1:]...)
			n.Caught[p] = NoFish
		}
	}
	n.Turn = Opponent(p)
	if len(n.Fish) == 0 {
		n.GameOver = true
	}
	return n
}
