package game

import "lukechampine.com/frand"

// RandomState deals a fresh position from the process-wide generator.
func RandomState(grid Grid, numFish, maxValue int) *State {
	return DealState(frand.New(), grid, numFish, maxValue)
}

// DealState deals a fresh position: both hooks at the surface in different
// columns and numFish fish of value 1..maxValue below it, all on distinct
// cells. Player 0 moves first. The same seeded rng always deals the same
// position.
func DealState(rng *frand.RNG, grid Grid, numFish, maxValue int) *State {
	if grid.Width < 2 || grid.Height < 2 {
		panic("grid too small for two hooks")
	}
	if limit := grid.Width * (grid.Height - 1); numFish > limit {
		numFish = limit
	}
	if maxValue < 1 {
		maxValue = 1
	}
	surface := grid.Surface()
	h0 := rng.Intn(grid.Width)
	h1 := (h0 + 1 + rng.Intn(grid.Width-1)) % grid.Width
	hooks := [NumPlayers]Coord{{X: h0, Y: surface}, {X: h1, Y: surface}}

	taken := make(map[Coord]bool, numFish)
	fish := make([]Fish, 0, numFish)
	for id := 0; len(fish) < numFish; {
		pos := Coord{X: rng.Intn(grid.Width), Y: rng.Intn(surface)}
		if taken[pos] {
			continue
		}
		taken[pos] = true
		fish = append(fish, Fish{ID: id, Pos: pos, Value: 1 + rng.Intn(maxValue)})
		id++
	}
	return NewState(grid, hooks, fish, 0)
}
