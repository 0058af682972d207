// Package main provides the Spotify authentication tool. It runs the OAuth
// authorization code flow once and prints the refresh token used by
// spotify_playlist catalog sources.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	"github.com/osa030/bibliasertaneja/internal/infra/config"
	"github.com/osa030/bibliasertaneja/internal/infra/logger"
	"github.com/osa030/bibliasertaneja/internal/infra/spotify"
)

var (
	app          = kingpin.New("bibliasertaneja-auth", "Spotify authentication tool for catalog imports")
	clientID     = app.Flag("client-id", "Spotify Client ID").Envar("SPOTIFY_CLIENT_ID").Required().String()
	clientSecret = app.Flag("client-secret", "Spotify Client Secret").Envar("SPOTIFY_CLIENT_SECRET").Required().String()
	port         = app.Flag("port", "Callback server port").Default("8888").Int()
	wait         = app.Flag("timeout", "How long to wait for the browser callback").Default("5m").Duration()
	market       = app.Flag("market", "Market used when verifying the token").Default("BR").String()
	verify       = app.Flag("verify-playlist", "Playlist URL or ID to import as a check of the new token").String()
	verbose      = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
)

// callback receives the authorization code on the local redirect URI.
type callback struct {
	auth    *spotifyauth.Authenticator
	state   string
	tokenCh chan *oauth2.Token
}

func (c *callback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if st := r.FormValue("state"); st != c.state {
		zlog.Warn().Msgf("auth: state mismatch: got=%s", st)
		http.Error(w, "State mismatch", http.StatusForbidden)
		return
	}

	token, err := c.auth.Token(r.Context(), c.state, r)
	if err != nil {
		zlog.Error().Msgf("auth: token exchange failed: error=%v", err)
		http.Error(w, "Failed to get token", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Bíblia Sertaneja</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh">
<h1>Autorização concluída</h1>
<p>Você pode fechar esta janela e voltar ao terminal.</p>
</body></html>
`)

	select {
	case c.tokenCh <- token:
	default:
	}
}

func main() {
	_ = godotenv.Load()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logCfg := config.LogConfig{Level: "info", Format: config.LogFormatConsole}
	if *verbose {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if err := run(); err != nil {
		zlog.Error().Msgf("Authorization failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cb := &callback{
		auth: spotifyauth.New(
			spotifyauth.WithRedirectURL(fmt.Sprintf("http://127.0.0.1:%d/callback", *port)),
			spotifyauth.WithClientID(*clientID),
			spotifyauth.WithClientSecret(*clientSecret),
			spotifyauth.WithScopes(spotify.Scopes...),
		),
		state:   uuid.New().String(),
		tokenCh: make(chan *oauth2.Token, 1),
	}

	mux := http.NewServeMux()
	mux.Handle("/callback", cb)
	server := &http.Server{Addr: fmt.Sprintf(":%d", *port), Handler: mux}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zlog.Warn().Msgf("Failed to shutdown callback server: %v", err)
		}
	}()

	fmt.Println("Open this URL to grant read-only playlist access:")
	fmt.Println()
	fmt.Println(cb.auth.AuthURL(cb.state))
	fmt.Println()
	zlog.Info().Msgf("Waiting for authorization: port=%d timeout=%s", *port, *wait)

	var token *oauth2.Token
	select {
	case token = <-cb.tokenCh:
	case err := <-serverErrCh:
		return errors.Wrap(err, "callback server failed")
	case <-time.After(*wait):
		return errors.Newf("no callback within %s", *wait)
	}
	if token.RefreshToken == "" {
		return errors.New("Spotify returned no refresh token")
	}

	if *verify != "" {
		if err := verifyToken(token.RefreshToken); err != nil {
			return err
		}
	}

	return printToken(token.RefreshToken)
}

// verifyToken imports one playlist with the new credentials.
func verifyToken(refreshToken string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := spotify.New(ctx, spotify.Config{
		ClientID:     *clientID,
		ClientSecret: *clientSecret,
		RefreshToken: refreshToken,
		Market:       *market,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create Spotify client")
	}
	p, err := client.GetPlaylist(ctx, *verify)
	if err != nil {
		return errors.Wrap(err, "token verification failed")
	}
	zlog.Info().Msgf("Token verified: playlist=%s tracks=%d", p.Name, len(p.Tracks))
	return nil
}

// printToken prints the refresh token as a config/server.yaml snippet.
func printToken(refreshToken string) error {
	snippet, err := yaml.Marshal(map[string]any{
		"spotify": map[string]string{"refresh_token": refreshToken},
	})
	if err != nil {
		return errors.Wrap(err, "failed to render config snippet")
	}

	fmt.Println("Add this to config/server.yaml:")
	fmt.Println()
	fmt.Print(string(snippet))
	fmt.Println()
	fmt.Println("Or set it in the environment (or .env):")
	fmt.Printf("SPOTIFY_REFRESH_TOKEN=%q\n", refreshToken)
	return nil
}
