package advisor

import (
	"testing"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func TestEvaluate(t *testing.T) {
	g := engine.Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	options := Evaluate(g)
	if len(options) != len(engine.Directions) {
		t.Fatalf("expected %d options, got %d", len(engine.Directions), len(options))
	}

	byDir := make(map[engine.Direction]Option)
	for _, o := range options {
		byDir[o.Direction] = o
	}

	left := byDir[engine.Left]
	if !left.Moved || left.Gain != 4 || left.Board[0][0] != 4 || left.EmptyCells != 15 {
		t.Errorf("unexpected left option: %+v", left)
	}
	if !left.CornerMax {
		t.Error("merged 4 in the top-left corner should count as a corner max")
	}
	if byDir[engine.Up].Moved {
		t.Error("up should not change a board whose tiles are already at the top")
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		grid engine.Grid
		want engine.Direction
	}{
		{
			name: "merge beats slide",
			grid: engine.Grid{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{4, 4, 0, 2},
			},
			want: engine.Left,
		},
		{
			name: "keeps the big tile in its corner",
			grid: engine.Grid{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{2, 0, 0, 0},
				{256, 0, 0, 0},
			},
			want: engine.Right,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank(tt.grid)
			if len(ranked) == 0 {
				t.Fatal("expected at least one moving option")
			}
			for _, o := range ranked {
				if !o.Moved {
					t.Errorf("Rank returned a no-op option %s", o.Direction)
				}
			}
			if ranked[0].Direction != tt.want {
				t.Errorf("best = %s, want %s (ranking %+v)", ranked[0].Direction, tt.want, ranked)
			}
		})
	}
}

func TestBest_NoMoves(t *testing.T) {
	locked := engine.Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}

	if d, ok := Best(locked); ok {
		t.Errorf("expected no move on a locked board, got %s", d)
	}
}
