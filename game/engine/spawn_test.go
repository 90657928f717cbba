package engine

import "testing"

func TestSpawnTile_Deterministic(t *testing.T) {
	tests := []struct {
		name  string
		index int
		float float64
		want  Tile
	}{
		{"first cell two", 0, 0.0, Tile{Row: 0, Col: 0, Value: 2}},
		{"last cell two", 15, 0.5, Tile{Row: 3, Col: 3, Value: 2}},
		{"middle cell four", 5, 0.95, Tile{Row: 1, Col: 1, Value: 4}},
		{"just below threshold", 2, 0.89, Tile{Row: 0, Col: 2, Value: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Grid
			rng := &scriptedRand{ints: []int{tt.index}, floats: []float64{tt.float}}

			got := spawnTile(&g, rng)
			if got == nil {
				t.Fatal("expected a spawned tile")
			}
			if *got != tt.want {
				t.Errorf("spawnTile() = %+v, want %+v", *got, tt.want)
			}
			if g[tt.want.Row][tt.want.Col] != tt.want.Value {
				t.Errorf("tile not written to grid: %v", g)
			}
			if CountEmpty(g) != Size*Size-1 {
				t.Errorf("expected exactly one tile placed, %d empty", CountEmpty(g))
			}
		})
	}
}

func TestSpawnTile_SkipsOccupied(t *testing.T) {
	g := Grid{
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 0, 2},
		{2, 2, 2, 0},
	}
	rng := &scriptedRand{ints: []int{1}, floats: []float64{0.1}}

	got := spawnTile(&g, rng)
	if got == nil || *got != (Tile{Row: 3, Col: 3, Value: 2}) {
		t.Errorf("expected spawn at the second empty cell (3,3), got %+v", got)
	}
}

func TestSpawnTile_FullBoard(t *testing.T) {
	g := Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	before := g
	rng := &scriptedRand{}

	if got := spawnTile(&g, rng); got != nil {
		t.Errorf("expected nil on a full board, got %+v", *got)
	}
	if g != before {
		t.Error("full board was modified")
	}
	if rng.calls != 0 {
		t.Errorf("expected no randomness consumed, got %d calls", rng.calls)
	}
}

func TestSpawnTile_Distribution(t *testing.T) {
	rng := NewSeededRand(2048)
	const trials = 20000

	fours := 0
	cells := make(map[Tile]int)
	for i := 0; i < trials; i++ {
		var g Grid
		tile := spawnTile(&g, rng)
		if tile.Value == 4 {
			fours++
		}
		cells[Tile{Row: tile.Row, Col: tile.Col}]++
	}

	ratio := float64(fours) / trials
	if ratio < 0.08 || ratio > 0.12 {
		t.Errorf("expected about 10%% fours, got %.3f", ratio)
	}
	if len(cells) != Size*Size {
		t.Errorf("expected every cell to be chosen at least once, got %d cells", len(cells))
	}
}

func TestSeededRand_Reproducible(t *testing.T) {
	a := NewEngine(nil, NewSeededRand(99))
	b := NewEngine(nil, NewSeededRand(99))

	for i := 0; i < 50; i++ {
		dir := Directions[i%len(Directions)]
		ra, _ := a.Move(dir)
		rb, _ := b.Move(dir)
		if ra.Moved != rb.Moved {
			t.Fatalf("move %d diverged", i)
		}
	}
	if a.GetBoard() != b.GetBoard() || a.GetScore() != b.GetScore() {
		t.Error("engines with the same seed produced different games")
	}
}
