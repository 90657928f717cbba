// Command analyze reads 2048 boards and reports what each direction would do.
//
// A board is 16 numbers in row-major order, 0 for an empty cell. Boards are
// taken from the command line, or one per line from stdin:
//
//	analyze 2 2 0 0  0 4 0 4  0 0 0 0  8 0 0 0
//	echo "2 2 0 0 0 4 0 4 0 0 0 0 8 0 0 0" | analyze --json
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/advisor"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Report is the analysis of a single board
type Report struct {
	Board       engine.Grid      `json:"board"`
	Won         bool             `json:"won"`
	Over        bool             `json:"over"`
	MaxTile     int              `json:"max_tile"`
	EmptyCells  int              `json:"empty_cells"`
	Options     []advisor.Option `json:"options"`
	Recommended engine.Direction `json:"recommended,omitempty"`
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("analyze failed", "error", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "preview every direction for 2048 boards",
		ArgsUsage: "[16 numbers]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print reports as JSON, one per line",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			in := io.Reader(os.Stdin)
			if cmd.Args().Len() > 0 {
				in = strings.NewReader(strings.Join(cmd.Args().Slice(), " "))
			}
			out := cmd.Writer
			if out == nil {
				out = os.Stdout
			}
			return run(in, out, cmd.Bool("json"))
		},
	}
}

// run analyzes one board per non-empty input line. Invalid lines are
// reported and skipped; the error counts them.
func run(in io.Reader, out io.Writer, asJSON bool) error {
	scanner := bufio.NewScanner(in)
	enc := json.NewEncoder(out)
	invalid := 0
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		board, err := parseBoard(text)
		if err != nil {
			invalid++
			fmt.Fprintf(out, "line %d: %v\n", line, err)
			continue
		}

		report := analyze(board)
		if asJSON {
			if err := enc.Encode(report); err != nil {
				return err
			}
			continue
		}
		printReport(out, report)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if invalid > 0 {
		return fmt.Errorf("%d invalid board(s)", invalid)
	}
	return nil
}

// parseBoard accepts 16 integers separated by spaces or commas
func parseBoard(text string) (engine.Grid, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	values := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return engine.Grid{}, fmt.Errorf("%w: %q is not a number", engine.ErrInvalidGrid, f)
		}
		values = append(values, v)
	}

	return engine.GridFromValues(values)
}

func analyze(board engine.Grid) Report {
	report := Report{
		Board:      board,
		Won:        board.HasWinningTile(),
		Over:       board.NoMovesLeft(),
		MaxTile:    engine.MaxTile(board),
		EmptyCells: engine.CountEmpty(board),
		Options:    advisor.Evaluate(board),
	}
	if d, ok := advisor.Best(board); ok {
		report.Recommended = d
	}
	return report
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "=== Board ===")
	fmt.Fprint(w, r.Board)
	fmt.Fprintf(w, "Max tile: %d  Empty cells: %d\n", r.MaxTile, r.EmptyCells)

	switch {
	case r.Over:
		fmt.Fprintln(w, "Status: game over")
	case r.Won:
		fmt.Fprintln(w, "Status: won")
	default:
		fmt.Fprintln(w, "Status: in progress")
	}

	fmt.Fprintln(w, "\nMoves:")
	for _, o := range r.Options {
		if !o.Moved {
			fmt.Fprintf(w, "  %-5s  no change\n", o.Direction)
			continue
		}
		marker := ""
		if o.Direction == r.Recommended {
			marker = " <- BEST"
		}
		fmt.Fprintf(w, "  %-5s  gain %-5d empty %-2d max %d%s\n",
			o.Direction, o.Gain, o.EmptyCells, o.MaxTile, marker)
	}
	fmt.Fprintln(w)
}
