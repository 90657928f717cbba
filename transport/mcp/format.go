package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

const instructions = `2048 - Complete Instructions

GAME OBJECTIVE:
Combine tiles on a 4x4 board until one of them reaches 2048.

GAME MECHANICS:
• A move slides every tile as far as it can go in one direction (left, right, up, down)
• Two equal tiles that meet merge into one tile with their sum
• A tile produced by a merge does not merge again in the same move, so [2 2 2 2] slides left to [4 4 0 0]
• When three equal tiles line up, the pair nearest the wall merges first
• Each merge adds the new tile's value to the score
• After every move that changes the board, a new tile appears on a random empty cell: 2 (90%) or 4 (10%)
• A move that changes nothing is a no-op: no tile spawns and the score is unchanged

WIN AND LOSS:
• Won: a 2048 tile is on the board. You may keep playing for a higher score
• Game over: the board is full and no two neighbouring tiles are equal
• The best score survives resets and server restarts

STRATEGY NOTES:
• Keep your largest tile in a corner and build a chain of decreasing tiles along one edge
• Favour two or three directions; avoid the one that would pull the big tile out of its corner
• Use preview_moves to compare the gain and the number of empty cells each direction leaves
• Empty cells are your margin: a move that merges nothing but keeps the board open can beat a small merge

TOOLS:
• create_session / list_sessions / get_session / delete_session
• game_state: board, score, best score, max tile, empty cells
• preview_moves: what each direction would do, without spawning
• move / bulk_move: play. bulk_move stops on an invalid direction or game over
• reset_game: new board, same session, best score kept
• move_history: board-changing moves of the current game`

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nGame: %s\nCreated: %s\nMoves: %d\n\n%s",
		session.ID, session.GameID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.MoveCount,
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d | Best: %d | Max tile: %d | Empty cells: %d\n",
		state.Score, state.BestScore, state.MaxTile, state.EmptyCells)
	b.WriteString(state.Board.String())

	switch {
	case state.Over:
		b.WriteString("\nGAME OVER")
	case state.Won:
		fmt.Fprintf(&b, "\nWON: %d reached, keep going for a higher score", engine.WinningTile)
	}

	return b.String()
}

func formatEvents(b *strings.Builder, events []service.GameEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- %s: %s\n", event.Type, event.Message)
	}
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s\n", result.Message)
		if result.Gain > 0 {
			fmt.Fprintf(&b, "Gain: +%d\n", result.Gain)
		}
		if result.Spawned != nil {
			fmt.Fprintf(&b, "Spawned: %d at row %d, col %d\n",
				result.Spawned.Value, result.Spawned.Row, result.Spawned.Col)
		}
	} else {
		fmt.Fprintf(&b, "✗ %s\n", result.Message)
	}

	formatEvents(&b, result.Events)

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Executed %d/%d moves (%d processed), score +%d\n",
		result.MovesExecuted, result.RequestedMoves, result.MovesAttempted, result.ScoreDelta)
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}

	if len(result.Events) > 0 {
		b.WriteString("\n")
		formatEvents(&b, result.Events)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

// formatPreview describes every direction from board without spawning
func formatPreview(board engine.Grid) string {
	var b strings.Builder
	b.WriteString("Move preview (spawns not included):\n")

	for _, d := range engine.Directions {
		next, gain, moved, err := engine.Preview(board, d)
		if err != nil {
			fmt.Fprintf(&b, "\n%s: %v\n", d, err)
			continue
		}
		if !moved {
			fmt.Fprintf(&b, "\n%s: no change\n", d)
			continue
		}
		fmt.Fprintf(&b, "\n%s: gain +%d, empty cells %d, max tile %d\n",
			d, gain, engine.CountEmpty(next), engine.MaxTile(next))
		b.WriteString(next.String())
	}

	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) • Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	if len(history.Moves) == 0 {
		b.WriteString("(no moves in this game yet)\n")
		return b.String()
	}

	for _, move := range history.Moves {
		spawn := ""
		if move.Spawned != nil {
			spawn = fmt.Sprintf(" spawn=%d@(%d,%d)", move.Spawned.Value, move.Spawned.Row, move.Spawned.Col)
		}
		fmt.Fprintf(&b, "%d. %s +%d [Score: %d, Max: %d]%s\n",
			move.MoveNumber, move.Direction, move.Gain, move.ScoreAfter, move.MaxTile, spawn)
	}

	return b.String()
}
