package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/auth"
	"github.com/wricardo/mcp-training/game2048/game/bestscore"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clearEnv keeps the developer's environment out of config loading
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GAME2048_CONFIG", "GAME2048_ADDR", "GAME2048_STORAGE", "GAME2048_STORAGE_PATH",
		"GAME2048_DATABASE_URL", "GAME2048_JWT_SECRET", "GAME2048_LOG_LEVEL", "GAME2048_LOG_FORMAT",
		"GAME2048_SESSION_TTL", "GAME2048_MCP_SERVER_URL",
		"NGROK_ENABLED", "NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN", "NGROK_DOMAIN",
	} {
		t.Setenv(name, "")
	}
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "2048 Game Server" {
		t.Errorf("unexpected app name %q", AppName)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level     string
		format    string
		wantDebug bool
		wantInfo  bool
		wantJSON  bool
	}{
		{"debug", "text", true, true, false},
		{"info", "json", false, true, true},
		{"WARN", "text", false, false, false},
		{"error", "json", false, false, true},
		{"bogus", "", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tt.level, tt.format, &buf)
			ctx := context.Background()

			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}

			logger.Error("boom")
			if isJSON := strings.HasPrefix(buf.String(), "{"); isJSON != tt.wantJSON {
				t.Errorf("json output = %v, want %v: %s", isJSON, tt.wantJSON, buf.String())
			}
		})
	}
}

func TestLocalURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080"},
		{"0.0.0.0:9000", "http://localhost:9000"},
		{"127.0.0.1:8081", "http://127.0.0.1:8081"},
		{"example.com:80", "http://example.com:80"},
		{"[::]:8080", "http://localhost:8080"},
		{"no-port", "http://no-port"},
	}

	for _, tt := range tests {
		if got := localURL(tt.addr); got != tt.want {
			t.Errorf("localURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestOpenBestStore(t *testing.T) {
	ctx := context.Background()

	store, closeStore, err := openBestStore(ctx, config.StorageConfig{Type: config.StorageMemory}, quietLogger())
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	defer closeStore()
	if _, ok := store.(*engine.MemoryBestScore); !ok {
		t.Errorf("expected a memory store, got %T", store)
	}

	dir := t.TempDir()
	store, closeStore, err = openBestStore(ctx, config.StorageConfig{Type: config.StorageFile, Path: dir, Key: "best"}, quietLogger())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	defer closeStore()
	if _, ok := store.(*bestscore.FileStore); !ok {
		t.Errorf("expected a file store, got %T", store)
	}
	store.Save(128)
	if store.Load() != 128 {
		t.Errorf("file store did not keep the score: %d", store.Load())
	}

	if _, _, err := openBestStore(ctx, config.StorageConfig{Type: config.StoragePostgres, DSN: "not a dsn"}, quietLogger()); err == nil {
		t.Error("expected an error for a bad postgres DSN")
	}
}

func TestTokenCommand(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret\n  issuer: game2048\n")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run(context.Background(), []string{"game2048", "--config", path, "token", "--subject", "alice", "--ttl", "5m"})
	if err != nil {
		t.Fatalf("token command failed: %v", err)
	}

	subject, err := auth.NewVerifier("test-secret", "game2048").Verify(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if subject != "alice" {
		t.Errorf("subject = %q, want alice", subject)
	}
}

func TestTokenCommand_NoSecret(t *testing.T) {
	clearEnv(t)

	app := newApp()
	app.Writer = io.Discard
	err := app.Run(context.Background(), []string{"game2048", "token"})
	if err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("expected a missing secret error, got %v", err)
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  addr: \":7000\"\n")

	var cfg *config.Config
	app := newApp()
	app.Action = func(ctx context.Context, cmd *cli.Command) error {
		var err error
		cfg, err = loadConfig(cmd)
		return err
	}

	if err := app.Run(context.Background(), []string{"game2048", "--config", path, "--addr", ":9999", "--debug"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q, want the flag value", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
}

// mcpCall posts a tools/call request and returns the raw JSON-RPC body
func mcpCall(t *testing.T, url, token, tool string, args map[string]interface{}) (int, string) {
	t.Helper()
	payload, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]interface{}{"name": tool, "arguments": args},
	})

	req, _ := http.NewRequest(http.MethodPost, url+"/mcp", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /mcp failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

// startApplication serves a wired application on an httptest server
func startApplication(t *testing.T, cfg *config.Config) (*application, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app, err := newApplication(ctx, cfg, quietLogger())
	if err != nil {
		t.Fatalf("newApplication failed: %v", err)
	}
	t.Cleanup(app.close)
	go app.hub.Run(ctx)

	// The handler needs its own URL for MCP callbacks, so bind the listener first
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	handler, err := app.handler(cfg, "http://"+listener.Addr().String(), quietLogger())
	if err != nil {
		listener.Close()
		t.Fatalf("handler failed: %v", err)
	}

	ts := httptest.NewUnstartedServer(handler)
	ts.Listener.Close()
	ts.Listener = listener
	ts.Start()
	t.Cleanup(ts.Close)

	return app, ts
}

func TestApplication_MCPCallsBackIntoAPI(t *testing.T) {
	cfg := config.Defaults()
	app, ts := startApplication(t, &cfg)

	status, body := mcpCall(t, ts.URL, "", "create_session", map[string]interface{}{})
	if status != http.StatusOK || !strings.Contains(body, "Created session:") {
		t.Fatalf("create_session: status %d body %s", status, body)
	}
	if app.manager.Count() != 1 {
		t.Errorf("expected the MCP tool to create a session, have %d", app.manager.Count())
	}

	resp, err := http.Get(ts.URL + cfg.Metrics.Path)
	if err != nil {
		t.Fatalf("GET metrics failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics: expected 200, got %d", resp.StatusCode)
	}
}

func TestApplication_AuthEnabled(t *testing.T) {
	cfg := config.Defaults()
	cfg.Auth.JWTSecret = "s3cret"
	app, ts := startApplication(t, &cfg)

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", resp.StatusCode)
	}

	if status, _ := mcpCall(t, ts.URL, "", "create_session", nil); status != http.StatusUnauthorized {
		t.Errorf("expected /mcp to require a token, got %d", status)
	}

	token, err := auth.NewToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, "tester", time.Minute)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	status, body := mcpCall(t, ts.URL, token, "create_session", map[string]interface{}{})
	if status != http.StatusOK || !strings.Contains(body, "Created session:") {
		t.Fatalf("create_session with token: status %d body %s", status, body)
	}
	if app.manager.Count() != 1 {
		t.Errorf("the internal MCP token should reach the API, have %d sessions", app.manager.Count())
	}
}

func TestApiReachable(t *testing.T) {
	cfg := config.Defaults()
	_, ts := startApplication(t, &cfg)

	if !apiReachable(context.Background(), ts.URL) {
		t.Error("expected the running API to be reachable")
	}
	if apiReachable(context.Background(), "http://127.0.0.1:1") {
		t.Error("nothing listens on port 1")
	}
}

func TestStartInternalServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Defaults()
	baseURL, stop, err := startInternalServer(ctx, &cfg, quietLogger())
	if err != nil {
		t.Fatalf("startInternalServer failed: %v", err)
	}
	defer stop()

	if !strings.HasPrefix(baseURL, "http://127.0.0.1:") {
		t.Errorf("unexpected base URL %q", baseURL)
	}
	if !apiReachable(ctx, baseURL) {
		t.Error("internal server should answer health checks")
	}
}

func TestSessionCleanupRoutine(t *testing.T) {
	cfg := config.Defaults()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApplication(ctx, &cfg, quietLogger())
	if err != nil {
		t.Fatalf("newApplication failed: %v", err)
	}
	defer app.close()

	if _, err := app.service.CreateSession(ctx); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, app.manager, 10*time.Millisecond, time.Nanosecond, quietLogger())
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for app.manager.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if app.manager.Count() != 0 {
		t.Error("expired session was not cleaned up")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("cleanup routine did not stop on cancel")
	}
}
