// Package library holds the per-session membership sets: downloads, favorites
// and playlists.
package library

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
)

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrDuplicateTrack   = errors.New("track already in playlist")
	ErrPlaylistReadOnly = errors.New("playlist is read-only")
)

// Store manages downloads, favorites and playlists with thread-safe access.
type Store struct {
	mu sync.RWMutex

	downloaded map[string]struct{}
	favorites  map[string]struct{}

	playlists map[string]*playlist.Playlist
	order     []string // Playlist ids in creation order
	created   int      // Count of user-created playlists, used for default titles
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		downloaded: make(map[string]struct{}),
		favorites:  make(map[string]struct{}),
		playlists:  make(map[string]*playlist.Playlist),
	}
}

// ToggleDownload flips the downloaded flag of a track and returns the new value.
func (s *Store) ToggleDownload(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toggle(s.downloaded, trackID)
}

// IsDownloaded reports whether the track is downloaded.
func (s *Store) IsDownloaded(trackID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.downloaded[trackID]
	return ok
}

// Downloaded returns the downloaded track ids, sorted.
func (s *Store) Downloaded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.downloaded)
}

// ToggleFavorite flips the favorite flag of a track and returns the new value.
func (s *Store) ToggleFavorite(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toggle(s.favorites, trackID)
}

// IsFavorite reports whether the track is a favorite.
func (s *Store) IsFavorite(trackID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[trackID]
	return ok
}

// Favorites returns the favorite track ids, sorted.
func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.favorites)
}

// CreatePlaylist creates an empty user playlist. An empty title gets a
// numbered default.
func (s *Store) CreatePlaylist(title string) playlist.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.created++
	if title == "" {
		title = fmt.Sprintf("Minha Playlist #%d", s.created)
	}

	p := &playlist.Playlist{
		ID:          uuid.New().String(),
		Title:       title,
		TrackIDs:    []string{},
		UserCreated: true,
	}
	s.playlists[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.Clone()
}

// SeedPlaylist adds a curated playlist. An existing playlist with the same id
// is replaced.
func (s *Store) SeedPlaylist(p playlist.Playlist) error {
	if p.ID == "" {
		return errors.New("playlist id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seeded := p.Clone()
	seeded.UserCreated = false
	if _, exists := s.playlists[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.playlists[p.ID] = &seeded
	return nil
}

// DeletePlaylist removes a user playlist. Curated playlists cannot be deleted.
func (s *Store) DeletePlaylist(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.editableLocked(id); err != nil {
		return err
	}

	delete(s.playlists, id)
	s.order = lo.Without(s.order, id)
	return nil
}

// AddToPlaylist appends a track to a user playlist.
func (s *Store) AddToPlaylist(playlistID, trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.editableLocked(playlistID)
	if err != nil {
		return err
	}
	if !p.Add(trackID) {
		return errors.Wrapf(ErrDuplicateTrack, "track %s in playlist %s", trackID, playlistID)
	}
	return nil
}

// RemoveFromPlaylist removes a track from a user playlist. Removing a track
// that is not in the playlist is a no-op.
func (s *Store) RemoveFromPlaylist(playlistID, trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.editableLocked(playlistID)
	if err != nil {
		return err
	}
	p.Remove(trackID)
	return nil
}

// editableLocked returns a user playlist for modification. Curated playlists
// are read-only.
func (s *Store) editableLocked(id string) (*playlist.Playlist, error) {
	p, ok := s.playlists[id]
	if !ok {
		return nil, errors.Wrapf(ErrPlaylistNotFound, "playlist %s", id)
	}
	if !p.UserCreated {
		return nil, errors.Wrapf(ErrPlaylistReadOnly, "playlist %s", id)
	}
	return p, nil
}

// Playlist returns a copy of a playlist.
func (s *Store) Playlist(id string) (playlist.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.playlists[id]
	if !ok {
		return playlist.Playlist{}, errors.Wrapf(ErrPlaylistNotFound, "playlist %s", id)
	}
	return p.Clone(), nil
}

// Playlists returns copies of all playlists in creation order.
func (s *Store) Playlists() []playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.order, func(id string, _ int) playlist.Playlist {
		return s.playlists[id].Clone()
	})
}

// AvailablePlaylists returns the playlists that can be played. Offline, only
// playlists with at least one downloaded track qualify.
func (s *Store) AvailablePlaylists(offline bool) []playlist.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]playlist.Playlist, 0, len(s.order))
	for _, id := range s.order {
		p := s.playlists[id]
		if offline && !lo.SomeBy(p.TrackIDs, func(tid string) bool {
			_, ok := s.downloaded[tid]
			return ok
		}) {
			continue
		}
		result = append(result, p.Clone())
	}
	return result
}

func toggle(set map[string]struct{}, id string) bool {
	if _, ok := set[id]; ok {
		delete(set, id)
		return false
	}
	set[id] = struct{}{}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := lo.Keys(set)
	sort.Strings(keys)
	return keys
}
