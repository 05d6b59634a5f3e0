package fingerprint

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/fishderby/game"
)

func position() *game.State {
	return game.NewState(game.DefaultGrid(),
		[game.NumPlayers]game.Coord{{X: 2, Y: 19}, {X: 11, Y: 19}},
		[]game.Fish{{ID: 0, Pos: game.Coord{X: 2, Y: 4}, Value: 6}, {ID: 1, Pos: game.Coord{X: 9, Y: 9}, Value: 2}},
		0)
}

func TestKeyIgnoresScoresAndTurn(t *testing.T) {
	is := is.New(t)
	a := position()
	b := a.Copy()
	b.Scores = [game.NumPlayers]int{30, 4}
	b.Turn = 1
	is.Equal(Of(a), Of(b))
}

func TestKeyCoversGeometry(t *testing.T) {
	is := is.New(t)
	a := position()

	moved := a.Copy()
	moved.Hooks[1].X = 12
	is.True(Of(a) != Of(moved))

	swapped := a.Copy()
	swapped.Hooks[0], swapped.Hooks[1] = swapped.Hooks[1], swapped.Hooks[0]
	is.True(Of(a) != Of(swapped))

	fishMoved := a.Copy()
	fishMoved.Fish[1].Pos.Y = 8
	is.True(Of(a) != Of(fishMoved))

	landed := a.Copy()
	landed.Fish = landed.Fish[:1]
	is.True(Of(a) != Of(landed))
}

func TestHasherMatchesOf(t *testing.T) {
	is := is.New(t)
	var h Hasher
	for i := 0; i < 100; i++ {
		s := game.RandomState(game.DefaultGrid(), 1+i%9, 10)
		is.Equal(h.Key(s), Of(s))
	}
}

func TestCanonicalIsStable(t *testing.T) {
	is := is.New(t)
	a := position()
	is.Equal(Canonical(nil, a), Canonical(nil, a.Copy()))
	is.Equal(Canonical(nil, a)[0], byte(hookTag))
}
