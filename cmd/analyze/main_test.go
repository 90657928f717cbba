package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func TestParseBoard(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"spaces", "2 2 0 0 0 4 0 4 0 0 0 0 8 0 0 0", false},
		{"commas", "2,2,0,0,0,4,0,4,0,0,0,0,8,0,0,0", false},
		{"mixed", "2, 2 0 0\t0 4 0 4 0 0 0 0 8 0 0 0", false},
		{"too few", "2 2 0 0", true},
		{"not a number", "2 2 x 0 0 4 0 4 0 0 0 0 8 0 0 0", true},
		{"not a power of two", "3 2 0 0 0 4 0 4 0 0 0 0 8 0 0 0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := parseBoard(tt.input)
			if tt.wantErr {
				if !errors.Is(err, engine.ErrInvalidGrid) {
					t.Errorf("expected ErrInvalidGrid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g[0][0] != 2 || g[1][3] != 4 || g[3][0] != 8 {
				t.Errorf("unexpected grid:\n%v", g)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		board    engine.Grid
		wantWon  bool
		wantOver bool
		wantBest engine.Direction
	}{
		{
			name:     "in progress",
			board:    engine.Grid{{2, 2, 0, 0}, {0, 4, 0, 4}, {}, {8, 0, 0, 0}},
			wantBest: engine.Left,
		},
		{
			name:    "won",
			board:   engine.Grid{{2048, 0, 0, 0}},
			wantWon: true,
		},
		{
			name: "over",
			board: engine.Grid{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 2},
			},
			wantOver: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyze(tt.board)
			if r.Won != tt.wantWon || r.Over != tt.wantOver {
				t.Errorf("won=%v over=%v, want %v/%v", r.Won, r.Over, tt.wantWon, tt.wantOver)
			}
			if len(r.Options) != len(engine.Directions) {
				t.Errorf("expected an option per direction, got %d", len(r.Options))
			}
			if tt.wantBest != "" && r.Recommended != tt.wantBest {
				t.Errorf("recommended %s, want %s", r.Recommended, tt.wantBest)
			}
			if tt.wantOver && r.Recommended != "" {
				t.Errorf("a locked board should have no recommendation, got %s", r.Recommended)
			}
		})
	}
}

func TestRun_Text(t *testing.T) {
	in := strings.NewReader("# comment\n\n2 2 0 0 0 0 0 0 0 0 0 0 0 0 0 0\n")
	var out bytes.Buffer

	if err := run(in, &out, false); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"=== Board ===", "Status: in progress", "left ", "<- BEST", "no change"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_JSON(t *testing.T) {
	in := strings.NewReader("2 2 0 0 0 0 0 0 0 0 0 0 0 0 0 0\n2048 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0\n")
	var out bytes.Buffer

	if err := run(in, &out, true); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	dec := json.NewDecoder(&out)
	var reports []Report
	for dec.More() {
		var r Report
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		reports = append(reports, r)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if !reports[1].Won {
		t.Error("second board should be won")
	}
}

func TestRun_InvalidLines(t *testing.T) {
	in := strings.NewReader("1 2 3\n2 2 0 0 0 0 0 0 0 0 0 0 0 0 0 0\n")
	var out bytes.Buffer

	err := run(in, &out, false)
	if err == nil || !strings.Contains(err.Error(), "1 invalid board") {
		t.Errorf("expected invalid board count error, got %v", err)
	}
	if !strings.Contains(out.String(), "line 1:") || !strings.Contains(out.String(), "=== Board ===") {
		t.Errorf("expected the valid board to still be analyzed:\n%s", out.String())
	}
}

func TestCommand_Args(t *testing.T) {
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out

	args := append([]string{"analyze"}, strings.Fields("0 0 0 0 0 0 0 0 0 0 0 0 0 0 2 2")...)
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out.String(), "Status: in progress") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
