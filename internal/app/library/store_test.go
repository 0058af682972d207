package library

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
)

func TestStore_ToggleDownload(t *testing.T) {
	s := NewStore()

	assert.False(t, s.IsDownloaded("1"))
	assert.True(t, s.ToggleDownload("1"))
	assert.True(t, s.IsDownloaded("1"))
	assert.True(t, s.ToggleDownload("3"))
	assert.Equal(t, []string{"1", "3"}, s.Downloaded())

	assert.False(t, s.ToggleDownload("1"))
	assert.False(t, s.IsDownloaded("1"))
	assert.Equal(t, []string{"3"}, s.Downloaded())
}

func TestStore_ToggleFavorite(t *testing.T) {
	s := NewStore()

	assert.True(t, s.ToggleFavorite("2"))
	assert.True(t, s.ToggleFavorite("1"))
	assert.True(t, s.IsFavorite("2"))
	assert.Equal(t, []string{"1", "2"}, s.Favorites())
	assert.False(t, s.ToggleFavorite("1"))
	assert.False(t, s.IsDownloaded("2"), "favorites and downloads are independent")
	assert.False(t, s.ToggleFavorite("2"))
	assert.Empty(t, s.Favorites())
}

func TestStore_CreatePlaylist(t *testing.T) {
	s := NewStore()

	first := s.CreatePlaylist("")
	second := s.CreatePlaylist("Louvores da Manhã")
	third := s.CreatePlaylist("")

	assert.Equal(t, "Minha Playlist #1", first.Title)
	assert.Equal(t, "Louvores da Manhã", second.Title)
	assert.Equal(t, "Minha Playlist #3", third.Title)
	assert.True(t, first.UserCreated)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, third.ID)

	ids := []string{}
	for _, p := range s.Playlists() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, ids)
}

func TestStore_AddToPlaylist(t *testing.T) {
	s := NewStore()
	p := s.CreatePlaylist("")

	require.NoError(t, s.AddToPlaylist(p.ID, "1"))
	require.NoError(t, s.AddToPlaylist(p.ID, "4"))

	err := s.AddToPlaylist(p.ID, "1")
	assert.True(t, errors.Is(err, ErrDuplicateTrack))

	err = s.AddToPlaylist("missing", "1")
	assert.True(t, errors.Is(err, ErrPlaylistNotFound))

	got, err := s.Playlist(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, got.TrackIDs)
}

func TestStore_RemoveFromPlaylist(t *testing.T) {
	s := NewStore()
	p := s.CreatePlaylist("")
	require.NoError(t, s.AddToPlaylist(p.ID, "1"))
	require.NoError(t, s.AddToPlaylist(p.ID, "2"))

	require.NoError(t, s.RemoveFromPlaylist(p.ID, "1"))
	require.NoError(t, s.RemoveFromPlaylist(p.ID, "9"))

	got, err := s.Playlist(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, got.TrackIDs)

	assert.True(t, errors.Is(s.RemoveFromPlaylist("missing", "1"), ErrPlaylistNotFound))
}

func TestStore_PlaylistIsCopy(t *testing.T) {
	s := NewStore()
	p := s.CreatePlaylist("")
	require.NoError(t, s.AddToPlaylist(p.ID, "1"))

	got, err := s.Playlist(p.ID)
	require.NoError(t, err)
	got.TrackIDs[0] = "changed"

	again, err := s.Playlist(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, again.TrackIDs)
}

func TestStore_DeletePlaylist(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SeedPlaylist(playlist.Playlist{ID: "p1", Title: "Clássicos do Sertão", TrackIDs: []string{"1", "2"}}))
	user := s.CreatePlaylist("")

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "curated", id: "p1", wantErr: ErrPlaylistReadOnly},
		{name: "unknown", id: "nope", wantErr: ErrPlaylistNotFound},
		{name: "user", id: user.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.DeletePlaylist(tt.id)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			_, err = s.Playlist(tt.id)
			assert.True(t, errors.Is(err, ErrPlaylistNotFound))
		})
	}

	assert.Len(t, s.Playlists(), 1)
}

func TestStore_SeedPlaylist(t *testing.T) {
	s := NewStore()

	require.Error(t, s.SeedPlaylist(playlist.Playlist{Title: "no id"}))

	require.NoError(t, s.SeedPlaylist(playlist.Playlist{ID: "p1", Title: "v1", UserCreated: true}))
	require.NoError(t, s.SeedPlaylist(playlist.Playlist{ID: "p1", Title: "v2"}))

	all := s.Playlists()
	require.Len(t, all, 1)
	assert.Equal(t, "v2", all[0].Title)
	assert.False(t, all[0].UserCreated)
}

func TestStore_AvailablePlaylists(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SeedPlaylist(playlist.Playlist{ID: "p1", TrackIDs: []string{"1", "2"}}))
	require.NoError(t, s.SeedPlaylist(playlist.Playlist{ID: "p2", TrackIDs: []string{"3", "4"}}))
	empty := s.CreatePlaylist("")

	assert.Len(t, s.AvailablePlaylists(false), 3)
	assert.Empty(t, s.AvailablePlaylists(true))

	s.ToggleDownload("4")
	offline := s.AvailablePlaylists(true)
	require.Len(t, offline, 1)
	assert.Equal(t, "p2", offline[0].ID)
	assert.NotEqual(t, empty.ID, offline[0].ID)
}

func TestStore_CuratedPlaylistIsReadOnly(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SeedPlaylist(playlist.Playlist{ID: "p1", Title: "Modão Profético", TrackIDs: []string{"3", "4"}}))

	tests := []struct {
		name string
		op   func() error
	}{
		{name: "add", op: func() error { return s.AddToPlaylist("p1", "1") }},
		{name: "add duplicate", op: func() error { return s.AddToPlaylist("p1", "3") }},
		{name: "remove", op: func() error { return s.RemoveFromPlaylist("p1", "3") }},
		{name: "remove absent", op: func() error { return s.RemoveFromPlaylist("p1", "9") }},
		{name: "delete", op: func() error { return s.DeletePlaylist("p1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.op(), ErrPlaylistReadOnly))
		})
	}

	got, err := s.Playlist("p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, got.TrackIDs)
}
