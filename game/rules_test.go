package game

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func twoFishState() *State {
	return NewState(DefaultGrid(),
		[NumPlayers]Coord{{X: 5, Y: 19}, {X: 15, Y: 19}},
		[]Fish{{ID: 7, Pos: Coord{X: 5, Y: 18}, Value: 4}, {ID: 2, Pos: Coord{X: 0, Y: 3}, Value: 11}},
		0)
}

func TestNewStateSortsFish(t *testing.T) {
	is := is.New(t)
	s := twoFishState()
	is.Equal(s.Fish[0].ID, 2)
	is.Equal(s.Fish[1].ID, 7)
	is.Equal(s.FishIndex(7), 1)
	is.Equal(s.FishIndex(3), -1)
	is.NoErr(s.Validate())
}

func TestLegalMovesAtSurface(t *testing.T) {
	is := is.New(t)
	s := twoFishState()
	// Up is off the grid at the surface.
	is.Equal(StandardRules{}.LegalMoves(s), []Move{Stay, Down, Left, Right})
}

func TestBoatsCannotShareAColumn(t *testing.T) {
	is := is.New(t)
	s := NewState(DefaultGrid(),
		[NumPlayers]Coord{{X: 3, Y: 10}, {X: 4, Y: 19}},
		[]Fish{{ID: 0, Pos: Coord{X: 9, Y: 2}, Value: 1}}, 0)
	is.Equal(StandardRules{}.LegalMoves(s), []Move{Stay, Up, Down, Left})
	n := Apply(s, Right)
	is.Equal(n.Hooks[0], Coord{X: 3, Y: 10})
}

func TestApplyDoesNotMutate(t *testing.T) {
	is := is.New(t)
	s := twoFishState()
	n := Apply(s, Down)
	is.Equal(s.Hooks[0], Coord{X: 5, Y: 19})
	is.Equal(s.Turn, 0)
	is.Equal(len(s.Fish), 2)
	is.Equal(n.Turn, 1)
}

func TestCatchAndReel(t *testing.T) {
	is := is.New(t)
	s := twoFishState()

	caught := Apply(s, Down)
	is.Equal(caught.Hooks[0], Coord{X: 5, Y: 18})
	is.Equal(caught.Caught[0], 7)
	is.NoErr(caught.Validate())

	// Player 1 passes; player 0 can only reel in.
	s2 := Apply(caught, Stay)
	is.Equal(StandardRules{}.LegalMoves(s2), []Move{Up})

	landed := Apply(s2, Up)
	is.Equal(landed.Scores[0], 4)
	is.Equal(landed.Caught[0], NoFish)
	is.Equal(len(landed.Fish), 1)
	is.Equal(landed.FishIndex(7), -1)
	is.True(!landed.GameOver)
}

func TestLastFishEndsTheGame(t *testing.T) {
	is := is.New(t)
	s := NewState(DefaultGrid(),
		[NumPlayers]Coord{{X: 1, Y: 19}, {X: 10, Y: 19}},
		[]Fish{{ID: 0, Pos: Coord{X: 1, Y: 18}, Value: 3}}, 0)
	s = Apply(s, Down)
	s = Apply(s, Stay)
	s = Apply(s, Up)
	is.True(s.GameOver)
	is.True(s.Terminal())
	is.Equal(s.Scores, [NumPlayers]int{3, 0})
	is.Equal(len(StandardRules{}.Successors(s)), 0)
}

func TestSuccessorsFollowMoveOrder(t *testing.T) {
	is := is.New(t)
	s := NewState(DefaultGrid(),
		[NumPlayers]Coord{{X: 5, Y: 10}, {X: 15, Y: 19}},
		[]Fish{{ID: 0, Pos: Coord{X: 9, Y: 2}, Value: 1}}, 0)
	succ := StandardRules{}.Successors(s)
	is.Equal(len(succ), 5)
	for i, sc := range succ {
		is.Equal(sc.Move, AllMoves[i])
		is.Equal(sc.State.Turn, 1)
	}
	is.Equal(succ[3].State.Hooks[0], Coord{X: 4, Y: 10})
}

func TestRandomState(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 50; i++ {
		s := RandomState(DefaultGrid(), 6, 10)
		is.NoErr(s.Validate())
		is.Equal(len(s.Fish), 6)
		is.True(s.Hooks[0].X != s.Hooks[1].X)
		for _, f := range s.Fish {
			is.True(f.Value >= 1 && f.Value <= 10)
			is.True(f.Pos.Y < s.Grid.Surface())
		}
	}
}

func TestDealStateIsSeeded(t *testing.T) {
	is := is.New(t)
	seed := make([]byte, 32)
	seed[0] = 7
	a := DealState(frand.NewCustom(seed, 1024, 12), DefaultGrid(), 8, 9)
	b := DealState(frand.NewCustom(seed, 1024, 12), DefaultGrid(), 8, 9)
	is.Equal(a.String(), b.String())
	is.Equal(a.Fish, b.Fish)
}
