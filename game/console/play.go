// Package console runs an interactive 2048 game on a text terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/advisor"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

const help = "Controls: w=Up, s=Down, a=Left, d=Right, h=Hint, r=Restart, q=Quit"

// PlayGame reads commands from r and renders the game to w until the player
// quits, the game is over, or input ends.
func PlayGame(r io.Reader, w io.Writer, eng *engine.GameEngine) error {
	scanner := bufio.NewScanner(r)
	announced := eng.IsWon()

	fmt.Fprintln(w, "=== 2048 ===")
	fmt.Fprintln(w, help)
	fmt.Fprintln(w)

	for {
		render(w, eng)

		if eng.IsOver() {
			fmt.Fprintf(w, "Game Over! Final score: %d\n", eng.GetScore())
			return nil
		}

		fmt.Fprint(w, "Move: ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		input := strings.TrimSpace(strings.ToLower(scanner.Text()))
		switch input {
		case "":
			continue
		case "q", "quit":
			fmt.Fprintln(w, "Quit.")
			return nil
		case "r", "restart":
			eng.Reset()
			announced = false
			fmt.Fprintln(w, "New game.")
			fmt.Fprintln(w)
			continue
		case "h", "hint":
			if d, ok := advisor.Best(eng.GetBoard()); ok {
				fmt.Fprintf(w, "Hint: %s\n", d)
			}
			fmt.Fprintln(w)
			continue
		}

		dir, err := engine.ParseDirection(input)
		if errors.Is(err, engine.ErrInvalidDirection) {
			fmt.Fprintln(w, "Invalid input. "+help)
			continue
		}

		result, err := eng.Move(dir)
		if err != nil {
			return err
		}
		if !result.Moved {
			fmt.Fprintln(w, "Cannot move in that direction.")
		} else if result.Gain > 0 {
			fmt.Fprintf(w, "+%d\n", result.Gain)
		}

		if eng.IsWon() && !announced {
			announced = true
			fmt.Fprintf(w, "You made %d! Keep going for a higher score.\n", engine.WinningTile)
		}
		fmt.Fprintln(w)
	}
}

func render(w io.Writer, eng *engine.GameEngine) {
	fmt.Fprint(w, eng.GetBoard())
	fmt.Fprintf(w, "Score: %d  Best: %d\n", eng.GetScore(), eng.GetBestScore())
}
