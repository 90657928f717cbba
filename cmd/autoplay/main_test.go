package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/advisor"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGameServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()
	manager := session.NewManager(func() *engine.GameEngine {
		return engine.NewEngine(nil, engine.NewSeededRand(42))
	})
	svc := service.NewGameService(manager, service.WithLogger(quietLogger()))
	ts := httptest.NewServer(api.NewServer(svc, nil, api.WithLogger(quietLogger())))
	t.Cleanup(ts.Close)
	return ts, manager
}

func TestClient_SessionLifecycle(t *testing.T) {
	ts, _ := newGameServer(t)
	client := NewClient(ts.URL+"/", "")
	ctx := context.Background()

	state, err := client.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if client.SessionID() == "" || state == nil {
		t.Fatal("expected a session ID and initial state")
	}

	dir, ok := advisor.Best(state.Board)
	if !ok {
		t.Fatal("a fresh board always has a move")
	}
	result, err := client.Move(ctx, dir)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.Success {
		t.Errorf("advised move %s should change the board: %s", dir, result.Message)
	}

	fetched, err := client.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if fetched.Board != result.GameState.Board {
		t.Error("fetched state differs from the move result")
	}

	reset, err := client.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if reset.Score != 0 || reset.EmptyCells != engine.Size*engine.Size-engine.InitialTiles {
		t.Errorf("unexpected state after reset: %+v", reset)
	}
}

func TestClient_Errors(t *testing.T) {
	ts, _ := newGameServer(t)
	client := NewClient(ts.URL, "")
	ctx := context.Background()

	if _, err := client.Resume(ctx, "missing"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected a 404 error for an unknown session, got %v", err)
	}

	if _, err := client.CreateSession(ctx); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := client.Move(ctx, engine.Direction("sideways")); err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("expected a 400 error for a bad direction, got %v", err)
	}
}

func TestClient_SendsToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"authentication required"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "secret-token")
	_, err := client.CreateSession(context.Background())
	if err == nil || !strings.Contains(err.Error(), "authentication required") {
		t.Errorf("expected the API error message, got %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestRun_ReachesTarget(t *testing.T) {
	ts, _ := newGameServer(t)
	client := NewClient(ts.URL, "")

	outcome, err := run(context.Background(), client, quietLogger(), Options{
		Target:      16,
		MaxMoves:    500,
		MaxAttempts: 1,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !outcome.Reached || outcome.MaxTile < 16 {
		t.Errorf("expected to reach 16, got %+v", outcome)
	}
	if outcome.Attempt != 1 || outcome.Moves == 0 {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
}

func TestRun_GivesUpAfterAttempts(t *testing.T) {
	ts, _ := newGameServer(t)
	client := NewClient(ts.URL, "")

	outcome, err := run(context.Background(), client, quietLogger(), Options{
		Target:      engine.WinningTile,
		MaxMoves:    3,
		MaxAttempts: 2,
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if outcome.Reached {
		t.Error("three moves cannot reach 2048")
	}
	if outcome.Attempt != 2 || outcome.Moves != 3 {
		t.Errorf("expected two attempts of three moves, got %+v", outcome)
	}
}

func TestRun_ResumesSession(t *testing.T) {
	ts, manager := newGameServer(t)
	client := NewClient(ts.URL, "")
	ctx := context.Background()

	if _, err := client.CreateSession(ctx); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	id := client.SessionID()

	resumed := NewClient(ts.URL, "")
	if _, err := run(ctx, resumed, quietLogger(), Options{SessionID: id, Target: 8, MaxMoves: 200, MaxAttempts: 1}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if resumed.SessionID() != id {
		t.Errorf("expected to resume %s, played %s", id, resumed.SessionID())
	}
	if manager.Count() != 1 {
		t.Errorf("resuming should not create a session, have %d", manager.Count())
	}
}

func TestRun_UnknownSessionCreatesNew(t *testing.T) {
	ts, manager := newGameServer(t)
	client := NewClient(ts.URL, "")

	if _, err := run(context.Background(), client, quietLogger(), Options{SessionID: "gone", Target: 8, MaxMoves: 200, MaxAttempts: 1}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if client.SessionID() == "gone" || manager.Count() != 1 {
		t.Errorf("expected a fresh session, got %q with %d sessions", client.SessionID(), manager.Count())
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ts, _ := newGameServer(t)
	client := NewClient(ts.URL, "")
	if _, err := client.CreateSession(context.Background()); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := run(ctx, client, quietLogger(), Options{SessionID: client.SessionID(), Target: 8, MaxMoves: 10, MaxAttempts: 3})
	if err == nil {
		t.Error("expected an error from a canceled context")
	}
}
