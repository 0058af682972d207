// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Catalog source types.
const (
	SourceTypeFile            = "file"
	SourceTypeSpotifyPlaylist = "spotify_playlist"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config represents the application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Player   PlayerConfig   `yaml:"player"`
	Accounts AccountsConfig `yaml:"accounts"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Messages MessagesConfig `yaml:"messages"`
	Spotify  SpotifyConfig  `yaml:"spotify"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	File   string `yaml:"file"` // Appends to this file instead of stdout
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr           string      `yaml:"addr" default:":8080"`
	Token          string      `yaml:"token"`           // Optional X-Api-Token; empty disables the check
	AllowedOrigins []string    `yaml:"allowed_origins"` // WebSocket origins; empty allows any
	Hooks          HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// PlayerConfig represents playback engine configuration.
type PlayerConfig struct {
	PreviewLimitSeconds   float64 `yaml:"preview_limit_seconds" default:"30" validate:"gt=0,lte=3600"`
	TickIntervalMs        int     `yaml:"tick_interval_ms" default:"1000" validate:"gte=10,lte=10000"`
	DefaultVolume         float64 `yaml:"default_volume" default:"0.7" validate:"gte=0,lte=1"`
	EventBuffer           int     `yaml:"event_buffer" default:"64" validate:"gte=1"`
	NotificationTimeoutMs int     `yaml:"notification_timeout_ms" default:"500" validate:"gte=10,lte=30000"`
}

// AccountsConfig represents the simulated account directory.
type AccountsConfig struct {
	AutoRegister bool `yaml:"auto_register"` // Login with an unknown email creates the account
}

// CatalogConfig lists the sources merged into the catalog, in order.
type CatalogConfig struct {
	Sources []SourceConfig `yaml:"sources" validate:"required,min=1,dive"`
}

// SourceConfig represents a single catalog source.
type SourceConfig struct {
	Type     string         `yaml:"type" validate:"required,oneof=file spotify_playlist"`
	Name     string         `yaml:"name"`
	Settings map[string]any `yaml:"settings" validate:"required"`
}

// MessagesConfig represents user-facing messages keyed by result code.
type MessagesConfig struct {
	Success          string `yaml:"success" default:"OK"`
	DefaultError     string `yaml:"default_error" default:"Algo deu errado. Tente novamente."`
	Unavailable      string `yaml:"unavailable" default:"Música indisponível offline."`
	PreviewExpired   string `yaml:"preview_expired" default:"Prévia de 30 segundos encerrada. Faça login para ouvir completo."`
	NoPlayableTrack  string `yaml:"no_playable_track" default:"Nenhuma música baixada disponível."`
	LoginRequired    string `yaml:"login_required" default:"Faça login para usar esta função."`
	TrackNotFound    string `yaml:"track_not_found" default:"Música não encontrada."`
	AlbumNotFound    string `yaml:"album_not_found" default:"Álbum não encontrado."`
	PlaylistNotFound string `yaml:"playlist_not_found" default:"Playlist não encontrada."`
	PlaylistReadOnly string `yaml:"playlist_read_only" default:"Esta playlist não pode ser alterada."`
	DuplicateTrack   string `yaml:"duplicate_track" default:"Música já está na playlist."`
	AccountExists    string `yaml:"account_exists" default:"Já existe uma conta com este e-mail."`
	AccountNotFound  string `yaml:"account_not_found" default:"Conta não encontrada."`
	InvalidEmail     string `yaml:"invalid_email" default:"E-mail inválido."`
}

// SpotifyConfig represents Spotify API configuration.
// Credentials are only required when a spotify_playlist source is configured.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"BR"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes, applies environment overrides
// and defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() error {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PLAYER_API_TOKEN"); v != "" {
		c.Server.Token = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("PLAYER_PREVIEW_LIMIT_SECONDS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid PLAYER_PREVIEW_LIMIT_SECONDS %q", v)
		}
		c.Player.PreviewLimitSeconds = f
	}
	return nil
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "unavailable":
		return c.Messages.Unavailable
	case "preview_expired":
		return c.Messages.PreviewExpired
	case "no_playable_track":
		return c.Messages.NoPlayableTrack
	case "login_required":
		return c.Messages.LoginRequired
	case "track_not_found":
		return c.Messages.TrackNotFound
	case "album_not_found":
		return c.Messages.AlbumNotFound
	case "playlist_not_found":
		return c.Messages.PlaylistNotFound
	case "playlist_read_only":
		return c.Messages.PlaylistReadOnly
	case "duplicate_track":
		return c.Messages.DuplicateTrack
	case "account_exists":
		return c.Messages.AccountExists
	case "account_not_found":
		return c.Messages.AccountNotFound
	case "invalid_email":
		return c.Messages.InvalidEmail
	default:
		return c.Messages.DefaultError
	}
}

// TickInterval returns the playback clock interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Player.TickIntervalMs) * time.Millisecond
}

// NotificationTimeout returns the per-subscriber send timeout.
func (c *Config) NotificationTimeout() time.Duration {
	return time.Duration(c.Player.NotificationTimeoutMs) * time.Millisecond
}

// UsesSpotify reports whether any catalog source needs the Spotify API.
func (c *Config) UsesSpotify() bool {
	for _, s := range c.Catalog.Sources {
		if s.Type == SourceTypeSpotifyPlaylist {
			return true
		}
	}
	return false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if err := c.validateSpotifyCredentials(); err != nil {
		return err
	}

	return nil
}

// validateSpotifyCredentials checks that Spotify credentials are present when
// a source needs them.
func (c *Config) validateSpotifyCredentials() error {
	if !c.UsesSpotify() {
		return nil
	}
	if c.Spotify.ClientID == "" {
		return errors.New("spotify.client_id (ClientID) is required by spotify_playlist sources")
	}
	if c.Spotify.ClientSecret == "" {
		return errors.New("spotify.client_secret (ClientSecret) is required by spotify_playlist sources")
	}
	if c.Spotify.RefreshToken == "" {
		return errors.New("spotify.refresh_token (RefreshToken) is required by spotify_playlist sources")
	}
	return nil
}
