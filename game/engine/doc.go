// Package engine provides the core game logic for 2048.
//
// The engine package implements the game mechanics including:
//   - A fixed 4x4 board of empty cells and power-of-two tiles
//   - Sliding and merging in four directions through a single left-slide
//   - Random tile spawning (2 with 90% probability, 4 with 10%)
//   - Score and best-score tracking
//   - Win (a 2048 tile) and loss (no possible move) detection
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. Grid is the board value type, MoveResult reports
// what a move did, and GameState is a serializable snapshot.
//
// Moves:
//
// Every move rotates the board clockwise until the requested direction points
// left (left 0, down 1, right 2, up 3 quarter turns), slides and merges each
// row to the left, then rotates back. A tile created by a merge never merges
// again during the same move, so [2 2 2 2] slides left to [4 4 0 0].
//
// Usage:
//
//	eng := engine.NewEngine(store, engine.NewRand())
//
//	result, err := eng.Move(engine.Left)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Moved && eng.IsOver() {
//		fmt.Println("Game over")
//	}
//
// Dependencies:
//
// The best score is read once at construction and written through a
// BestScoreStore whenever it is beaten. Randomness comes from a Rand, so a
// seeded or scripted source makes games fully reproducible.
package engine
