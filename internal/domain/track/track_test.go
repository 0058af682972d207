package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrack_Validate(t *testing.T) {
	tests := []struct {
		name    string
		track   Track
		wantErr bool
	}{
		{
			name: "valid track",
			track: Track{
				ID:       "1",
				Title:    "Caminho de Emaús",
				Duration: 185,
			},
			wantErr: false,
		},
		{
			name: "empty ID",
			track: Track{
				Title:    "Caminho de Emaús",
				Duration: 185,
			},
			wantErr: true,
		},
		{
			name: "empty title",
			track: Track{
				ID:       "1",
				Duration: 185,
			},
			wantErr: true,
		},
		{
			name: "zero duration",
			track: Track{
				ID:    "1",
				Title: "Caminho de Emaús",
			},
			wantErr: true,
		},
		{
			name: "negative duration",
			track: Track{
				ID:       "1",
				Title:    "Caminho de Emaús",
				Duration: -5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTrack_Length(t *testing.T) {
	tr := Track{ID: "2", Title: "O Filho Pródigo", Duration: 240}
	assert.Equal(t, 4*time.Minute, tr.Length())
}

func TestTrack_HasLyrics(t *testing.T) {
	assert.False(t, (&Track{}).HasLyrics())
	assert.True(t, (&Track{Lyrics: "Era um menino pastor"}).HasLyrics())
}
