// Command autoplay plays 2048 against a running server using the greedy
// move advisor, restarting until it reaches the target tile or runs out of
// attempts.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/advisor"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// errNoMoves means the advisor found nothing that changes the board
var errNoMoves = errors.New("no move changes the board")

// Options controls an autoplay run
type Options struct {
	SessionID   string
	Target      int
	MaxMoves    int
	MaxAttempts int
	Delay       time.Duration
}

// Outcome summarizes one attempt
type Outcome struct {
	Attempt int
	Moves   int
	Score   int
	MaxTile int
	Reached bool
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "play 2048 against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "game server URL",
				Sources: cli.EnvVars("GAME2048_URL"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token when the server requires auth",
				Sources: cli.EnvVars("GAME2048_TOKEN"),
			},
			&cli.StringFlag{
				Name:  "continue",
				Usage: "resume an existing session by ID",
			},
			&cli.IntFlag{
				Name:  "target",
				Value: engine.WinningTile,
				Usage: "tile value that counts as success",
			},
			&cli.IntFlag{
				Name:  "max-moves",
				Value: 5000,
				Usage: "maximum moves per attempt",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Value: 10,
				Usage: "maximum attempts before giving up",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "pause between moves",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log progress every 100 moves",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level := slog.LevelInfo
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			client := NewClient(cmd.String("url"), cmd.String("token"))
			logger.Info("connecting to game server", "url", cmd.String("url"))

			outcome, err := run(ctx, client, logger, Options{
				SessionID:   cmd.String("continue"),
				Target:      cmd.Int("target"),
				MaxMoves:    cmd.Int("max-moves"),
				MaxAttempts: cmd.Int("max-attempts"),
				Delay:       cmd.Duration("delay"),
			})
			if err != nil {
				return err
			}
			if !outcome.Reached {
				return fmt.Errorf("failed to reach %d after %d attempts (best max tile %d)",
					cmd.Int("target"), outcome.Attempt, outcome.MaxTile)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("autoplay failed", "error", err)
		os.Exit(1)
	}
}

// run plays attempts until one reaches the target. It returns the winning
// outcome, or the best one seen when every attempt fails.
func run(ctx context.Context, client *Client, logger *slog.Logger, opts Options) (Outcome, error) {
	var (
		state *engine.GameState
		err   error
	)

	if opts.SessionID != "" {
		state, err = client.Resume(ctx, opts.SessionID)
		if err != nil {
			logger.Warn("failed to resume session, creating a new one", "session", opts.SessionID, "error", err)
		}
	}
	if state == nil {
		if _, err = client.CreateSession(ctx); err != nil {
			return Outcome{}, err
		}
		logger.Info("session created", "session", client.SessionID())
	}

	var best Outcome
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		state, err = client.Reset(ctx)
		if err != nil {
			return best, err
		}

		outcome, err := playAttempt(ctx, client, logger, state, opts)
		outcome.Attempt = attempt
		if err != nil && !errors.Is(err, errNoMoves) {
			return best, err
		}

		logger.Info("attempt finished",
			"attempt", attempt,
			"moves", outcome.Moves,
			"score", outcome.Score,
			"max_tile", outcome.MaxTile,
		)

		if outcome.Reached {
			logger.Info("target reached", "session", client.SessionID(), "attempt", attempt)
			return outcome, nil
		}
		if outcome.MaxTile > best.MaxTile || (outcome.MaxTile == best.MaxTile && outcome.Score > best.Score) {
			best = outcome
		}
		best.Attempt = attempt
	}

	return best, nil
}

func playAttempt(ctx context.Context, client *Client, logger *slog.Logger, state *engine.GameState, opts Options) (Outcome, error) {
	outcome := Outcome{Score: state.Score, MaxTile: state.MaxTile}

	for !state.Over && outcome.Moves < opts.MaxMoves {
		if state.MaxTile >= opts.Target {
			outcome.Reached = true
			return outcome, nil
		}

		dir, ok := advisor.Best(state.Board)
		if !ok {
			return outcome, errNoMoves
		}

		result, err := client.Move(ctx, dir)
		if err != nil {
			return outcome, err
		}
		state = result.GameState
		outcome.Moves++
		outcome.Score = state.Score
		outcome.MaxTile = state.MaxTile

		if outcome.Moves%100 == 0 {
			logger.Debug("progress", "moves", outcome.Moves, "score", state.Score, "max_tile", state.MaxTile)
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return outcome, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	outcome.Reached = state.MaxTile >= opts.Target
	return outcome, nil
}
