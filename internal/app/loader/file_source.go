package loader

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type FileSourceConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// FileSource reads tracks, albums and playlists from a YAML file.
type FileSource struct {
	config *FileSourceConfig
}

// NewFileSource creates a new FileSource.
func NewFileSource(settings map[string]any) (*FileSource, error) {
	var config FileSourceConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &FileSource{config: &config}, nil
}

// Load reads and parses the file.
func (s *FileSource) Load(ctx context.Context) (*Bundle, error) {
	data, err := os.ReadFile(s.config.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog file %s", s.config.Path)
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog file %s", s.config.Path)
	}

	zlog.Debug().Msgf("file source loaded: path=%s tracks=%d albums=%d playlists=%d",
		s.config.Path, len(b.Tracks), len(b.Albums), len(b.Playlists))
	return &b, nil
}

// Name returns the source name.
func (s *FileSource) Name() string {
	return "file"
}
