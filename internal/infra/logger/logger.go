// Package logger configures the global zerolog logger and derives the
// session-scoped loggers used by the player.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/bibliasertaneja/internal/infra/config"
)

// SessionIDField is the context field carried by session-scoped loggers.
const SessionIDField = "session_id"

// Init replaces the global logger according to cfg. Console output goes to
// stdout; a configured file always gets JSON lines.
func Init(cfg config.LogConfig) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(logger.GetLevel())
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	return nil
}

// New builds a logger without installing it.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.CallerMarshalFunc = shortCaller

	var w io.Writer = os.Stdout
	format := cfg.Format
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "failed to open log file %s", cfg.File)
		}
		w = f
		format = config.LogFormatJSON
	}
	return build(w, format, level), nil
}

// ForSession returns the global logger tagged with the session id.
func ForSession(sessionID string) zerolog.Logger {
	return zlog.Logger.With().Str(SessionIDField, sessionID).Logger()
}

func build(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if format != config.LogFormatJSON {
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
		if level <= zerolog.DebugLevel {
			cw.PartsOrder = []string{"time", "level", SessionIDField, "message", "caller"}
			cw.FieldsExclude = []string{SessionIDField}
			cw.FormatCaller = func(i any) string { return "(" + i.(string) + ")" }
		}
		w = cw
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "invalid log level %q", s)
	}
	return level, nil
}

// shortCaller trims the caller to its last directory and file name.
func shortCaller(_ uintptr, file string, line int) string {
	parts := strings.Split(file, string(filepath.Separator))
	if len(parts) > 1 {
		return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
