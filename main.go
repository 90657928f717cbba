// Command game2048 starts the 2048 game server.
//
// It supports these modes:
//  1. "server" (default) runs the HTTP server exposing the REST API, WebSocket and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" runs a single game in the terminal
//  4. "token" mints a bearer token for a server with auth enabled
//
// Settings come from a YAML or HCL config file and GAME2048_* environment
// variables; flags override both.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/auth"
	"github.com/wricardo/mcp-training/game2048/game/bestscore"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/console"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
	"github.com/wricardo/mcp-training/game2048/observability"
	"github.com/wricardo/mcp-training/game2048/transport/mcp"
	"github.com/wricardo/mcp-training/game2048/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "2048 Game Server"
)

// internalTokenTTL covers the lifetime of a server process
const internalTokenTTL = 30 * 24 * time.Hour

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "game2048",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a .yaml, .yml or .hcl config file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP listen address (overrides server.addr)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "ngrok",
				Usage: "expose the server through an ngrok tunnel",
			},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server, starting an internal HTTP API when none is reachable",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "token",
						Usage:   "bearer token for an external server with auth enabled",
						Sources: cli.EnvVars("GAME2048_TOKEN"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:   "play",
				Usage:  "play a game in the terminal",
				Action: runPlay,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "seed for a reproducible game (0 picks a random one)",
					},
				},
			},
			{
				Name:   "token",
				Usage:  "mint a bearer token signed with auth.jwt_secret",
				Action: runToken,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "subject",
						Value: "player",
						Usage: "token subject",
					},
					&cli.DurationFlag{
						Name:  "ttl",
						Value: auth.DefaultTokenTTL,
						Usage: "token lifetime",
					},
				},
			},
		},
	}
}

// loadConfig reads the config file and environment, then applies flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("addr") {
		cfg.Server.Addr = cmd.String("addr")
	}
	if cmd.Bool("debug") {
		cfg.Logging.Level = "debug"
	}
	if cmd.Bool("ngrok") {
		cfg.Ngrok.Enabled = true
	}
	return cfg, nil
}

// newLogger creates a slog.Logger writing to w in the given format.
func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// setup loads config and installs the default logger. Logs go to stderr so
// the stdio MCP transport keeps stdout to itself.
func setup(cmd *cli.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openBestStore returns the configured best score store and a function releasing it.
func openBestStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (engine.BestScoreStore, func(), error) {
	switch cfg.Type {
	case config.StorageFile:
		store, err := bestscore.NewFileStore(cfg.Path, cfg.Key, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("opening best score file: %w", err)
		}
		logger.Info("best score stored on disk", "path", store.Path())
		return store, func() {}, nil

	case config.StoragePostgres:
		store, err := bestscore.NewPostgresStore(ctx, bestscore.PostgresConfig{
			DSN:            cfg.DSN,
			Key:            cfg.Key,
			MaxConns:       cfg.MaxConns,
			MigrateOnStart: true,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting best score database: %w", err)
		}
		logger.Info("best score stored in postgres", "key", cfg.Key)
		return store, store.Close, nil

	default:
		return engine.NewMemoryBestScore(0), func() {}, nil
	}
}

// application holds the wired services shared by the server modes.
type application struct {
	manager *session.Manager
	service service.GameService
	hub     *websocket.Hub
	close   func()
}

// newApplication wires the best score store, session manager and game
// service. Every session shares the same best score store.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	store, closeStore, err := openBestStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	manager := session.NewManager(func() *engine.GameEngine {
		return engine.NewEngine(store, engine.NewRand())
	})

	var opts []service.Option
	opts = append(opts, service.WithLogger(logger))
	if cfg.Metrics.Enabled {
		opts = append(opts, service.WithMetrics(observability.Recorder{}))
	}

	return &application{
		manager: manager,
		service: service.NewGameService(manager, opts...),
		hub:     websocket.NewHub(logger),
		close:   closeStore,
	}, nil
}

// handler builds the HTTP API. The /mcp endpoint calls back into the same
// API at baseURL.
func (a *application) handler(cfg *config.Config, baseURL string, logger *slog.Logger) (http.Handler, error) {
	var mcpOpts []mcp.Option
	opts := []api.Option{api.WithLogger(logger)}

	if cfg.Auth.Enabled() {
		token, err := auth.NewToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, "mcp", internalTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("minting internal token: %w", err)
		}
		mcpOpts = append(mcpOpts, mcp.WithToken(token))
		opts = append(opts, api.WithAuth(auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)))
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, api.WithMetricsPath(cfg.Metrics.Path))
	}

	mcpClient := mcp.NewClient(baseURL, mcpOpts...)
	opts = append(opts, api.WithMCPHandler(mcpClient.Handler()))

	return api.NewServer(a.service, a.hub, opts...), nil
}

// localURL turns a listen address into a URL reachable from this host.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl and publishes the active session count.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				logger.Info("cleaned up expired sessions", "removed", removed)
			}
			observability.ActiveSessions.Set(float64(manager.Count()))
		}
	}
}

// runServer starts the HTTP server with REST API, WebSocket hub, and /mcp endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	logger.Info("starting", "app", AppName, "version", Version, "mode", "server")

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.close()

	handler, err := app.handler(cfg, localURL(cfg.Server.Addr), logger)
	if err != nil {
		return err
	}

	go app.hub.Run(ctx)
	go sessionCleanupRoutine(ctx, app.manager, cfg.Sessions.CleanupInterval, cfg.Sessions.TTL, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		base := localURL(cfg.Server.Addr)
		logger.Info("HTTP server listening",
			"addr", cfg.Server.Addr,
			"api", base+"/api",
			"websocket", strings.Replace(base, "http", "ws", 1)+"/ws?session=<session_id>",
			"mcp", base+"/mcp",
			"auth", cfg.Auth.Enabled(),
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cfg.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cfg.Ngrok, handler, logger)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("HTTP server shutdown error", "error", shutdownErr)
	}

	wg.Wait()
	logger.Info("server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is done.
func runNgrok(ctx context.Context, cfg config.NgrokConfig, handler http.Handler, logger *slog.Logger) {
	if cfg.AuthToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (set ngrok.authtoken, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
		logger.Info("using custom ngrok domain", "domain", cfg.Domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", "error", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Error("failed to close ngrok tunnel", "error", err)
		}
	}()

	url := tun.URL()
	logger.Info("ngrok tunnel established",
		"url", url,
		"api", url+"/api",
		"mcp", url+"/mcp",
	)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", "error", err)
	}
	logger.Info("ngrok tunnel closed")
}

// apiReachable reports whether a game API answers at baseURL.
func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalServer serves the API on a random loopback port and returns its base URL.
func startInternalServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}
	baseURL := "http://" + listener.Addr().String()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		listener.Close()
		return "", nil, err
	}
	handler, err := app.handler(cfg, baseURL, logger)
	if err != nil {
		listener.Close()
		app.close()
		return "", nil, err
	}

	go app.hub.Run(ctx)

	httpServer := &http.Server{Handler: handler}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("internal HTTP server error", "error", err)
		}
	}()

	logger.Info("internal HTTP server started", "url", baseURL)
	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
		app.close()
	}
	return baseURL, stop, nil
}

// runStdioMCP runs an MCP stdio server. It reuses the API at mcp.server_url
// when it answers, otherwise it starts an internal one.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	baseURL := strings.TrimRight(cfg.MCP.ServerURL, "/")
	token := cmd.String("token")

	logger.Info("checking for external API server", "url", baseURL)
	if apiReachable(ctx, baseURL) {
		logger.Info("external API server found, using it for MCP", "url", baseURL)
		if token == "" && cfg.Auth.Enabled() {
			if token, err = auth.NewToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, "mcp", internalTokenTTL); err != nil {
				return err
			}
		}
	} else {
		logger.Info("no external API server found, starting internal HTTP server")
		var stop func()
		baseURL, stop, err = startInternalServer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer stop()

		if cfg.Auth.Enabled() {
			if token, err = auth.NewToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, "mcp", internalTokenTTL); err != nil {
				return err
			}
		}
	}

	var opts []mcp.Option
	if token != "" {
		opts = append(opts, mcp.WithToken(token))
	}
	mcpClient := mcp.NewClient(baseURL, opts...)

	logger.Info("MCP stdio server ready", "api", baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runPlay plays one game on the terminal with the configured best score store.
func runPlay(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	store, closeStore, err := openBestStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	rng := engine.NewRand()
	if seed := cmd.Uint64("seed"); seed != 0 {
		rng = engine.NewSeededRand(seed)
	}

	return console.PlayGame(os.Stdin, os.Stdout, engine.NewEngine(store, rng))
}

// runToken prints a token accepted by a server sharing this config's secret.
func runToken(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Auth.Enabled() {
		return errors.New("auth.jwt_secret is not set")
	}

	token, err := auth.NewToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cmd.String("subject"), cmd.Duration("ttl"))
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, token)
	return nil
}
