package game

import (
	"fmt"
	"strings"
)

// Move is one of the five actions a player can send for a turn. The
// numeric values match the action numbering used by the game server.
type Move uint8

const (
	Stay Move = iota
	Up
	Down
	Left
	Right
)

// AllMoves lists the moves in the order children are generated.
var AllMoves = [...]Move{Stay, Up, Down, Left, Right}

var moveNames = [...]string{"stay", "up", "down", "left", "right"}

func (m Move) String() string {
	if int(m) < len(moveNames) {
		return moveNames[m]
	}
	return fmt.Sprintf("move(%d)", uint8(m))
}

// Delta returns the hook displacement for the move.
func (m Move) Delta() (dx, dy int) {
	switch m {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range moveNames {
		if s == name {
			return Move(i), nil
		}
	}
	return Stay, fmt.Errorf("unknown move %q", s)
}
