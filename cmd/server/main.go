// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/bibliasertaneja/internal/api/connect"
	"github.com/osa030/bibliasertaneja/internal/api/ws"
	"github.com/osa030/bibliasertaneja/internal/app/library"
	"github.com/osa030/bibliasertaneja/internal/app/loader"
	"github.com/osa030/bibliasertaneja/internal/app/session"
	"github.com/osa030/bibliasertaneja/internal/domain/catalog"
	"github.com/osa030/bibliasertaneja/internal/infra/config"
	"github.com/osa030/bibliasertaneja/internal/infra/logger"
	"github.com/osa030/bibliasertaneja/internal/infra/spotify"
)

var (
	app        = kingpin.New("bibliasertaneja-server", "Bíblia Sertaneja player server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// check command
	checkCmd = app.Command("check", "Load the catalog, print a summary and exit")
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config %s: %v", *configPath, err)
	}

	// Flags take precedence over the log section of the config file
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logfile != "" {
		cfg.Log.File = *logfile
	}
	if err := logger.Init(cfg.Log); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	zlog.Info().Msgf("Loaded config from %s", *configPath)

	if command == checkCmd.FullCommand() {
		if err := check(cfg); err != nil {
			zlog.Error().Msgf("Check failed: %v", err)
			os.Exit(1)
		}
		return
	}

	// Run server (defer ensures cleanup runs on any exit)
	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// loadLibrary builds the catalog and seeds curated playlists from the
// configured sources.
func loadLibrary(ctx context.Context, cfg *config.Config) (*catalog.Catalog, *library.Store, loader.Summary, error) {
	var spotifyClient loader.SpotifyClient
	if cfg.UsesSpotify() {
		c, err := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RefreshToken: cfg.Spotify.RefreshToken,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return nil, nil, loader.Summary{}, errors.Wrap(err, "failed to create Spotify client")
		}
		spotifyClient = c
	}

	chain, err := loader.NewChainFromConfig(cfg, spotifyClient)
	if err != nil {
		return nil, nil, loader.Summary{}, err
	}

	cat := catalog.New()
	lib := library.NewStore()
	sum, err := chain.Load(ctx, cat, lib)
	if err != nil {
		return nil, nil, sum, errors.Wrap(err, "failed to load catalog")
	}
	return cat, lib, sum, nil
}

// check loads the catalog and prints what it found.
func check(cfg *config.Config) error {
	cat, lib, sum, err := loadLibrary(context.Background(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Catalog: %d tracks, %d albums, %d playlists (skipped %d, failed sources %d)\n",
		sum.Tracks, sum.Albums, sum.Playlists, sum.Skipped, sum.Failed)
	for _, t := range cat.Tracks() {
		fmt.Printf("  %-28s %-36s %4ds  %s\n", t.ID, t.Title, t.Duration, t.BibleReference)
	}
	for _, p := range lib.Playlists() {
		fmt.Printf("  playlist %-20s %s (%d tracks)\n", p.ID, p.Title, len(p.TrackIDs))
	}
	return nil
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	cat, lib, sum, err := loadLibrary(ctx, cfg)
	if err != nil {
		return err
	}
	zlog.Info().Msgf("Catalog loaded: tracks=%d albums=%d playlists=%d skipped=%d failed_sources=%d",
		sum.Tracks, sum.Albums, sum.Playlists, sum.Skipped, sum.Failed)

	sessionMgr := session.NewManager(cfg, cat, lib)
	sessionMgr.Start()

	mux := http.NewServeMux()
	apiconnect.Mount(mux, sessionMgr, cfg)
	ws.Mount(mux, sessionMgr, cfg)
	if cfg.Server.Token == "" {
		zlog.Warn().Msg("API token not configured, all callers are accepted")
	}

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		sessionMgr.Close()
		return errors.Wrap(err, "server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close session manager first to terminate notification streams
	sessionMgr.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
