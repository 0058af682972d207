package session

import (
	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/app/playback"
	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
	"github.com/osa030/bibliasertaneja/internal/domain/track"
)

// SessionInfo builds the wire description of the session.
func (m *Manager) SessionInfo() *playerv1.SessionInfo {
	info := m.stateMgr.BuildSessionInfo()
	info.PreviewLimitSeconds = m.config.Player.PreviewLimitSeconds
	info.DownloadedCount = int32(len(m.library.Downloaded()))
	info.FavoriteCount = int32(len(m.library.Favorites()))
	return info
}

// InitialNotification describes the whole session for a new subscriber.
func (m *Manager) InitialNotification() *playerv1.Notification {
	return &playerv1.Notification{
		Type:        playerv1.NotificationTypeInitialState,
		SessionInfo: m.SessionInfo(),
		PlayerState: m.BuildPlayerState(m.Snapshot()),
	}
}

// BuildPlayerState converts a snapshot to its wire form.
func (m *Manager) BuildPlayerState(s playback.Snapshot) *playerv1.PlayerState {
	ps := &playerv1.PlayerState{
		TrackId:          s.TrackID,
		State:            s.Status.String(),
		ElapsedSeconds:   s.Elapsed,
		RemainingSeconds: s.Remaining(),
		Volume:           s.Volume,
		PreviewLocked:    s.PreviewLocked,
	}
	if s.Track != nil {
		ps.Track = m.BuildTrackInfo(*s.Track)
	}
	return ps
}

// BuildTrackInfo converts a track, adding the caller's library flags.
func (m *Manager) BuildTrackInfo(t track.Track) *playerv1.TrackInfo {
	return &playerv1.TrackInfo{
		TrackId:         t.ID,
		Title:           t.Title,
		BibleReference:  t.BibleReference,
		Description:     t.Description,
		Album:           t.Album,
		CoverUrl:        t.CoverURL,
		AudioUrl:        t.AudioURL,
		DurationSeconds: int32(t.Duration),
		HasLyrics:       t.HasLyrics(),
		Encrypted:       t.Encrypted,
		Downloaded:      m.library.IsDownloaded(t.ID),
		Favorite:        m.library.IsFavorite(t.ID),
	}
}

// BuildAlbumInfo converts an album.
func BuildAlbumInfo(a track.Album) *playerv1.AlbumInfo {
	return &playerv1.AlbumInfo{
		AlbumId:  a.ID,
		Title:    a.Title,
		Author:   a.Author,
		CoverUrl: a.CoverURL,
		Year:     int32(a.Year),
		TrackIds: append([]string{}, a.TrackIDs...),
	}
}

// BuildPlaylistInfo converts a playlist.
func BuildPlaylistInfo(p playlist.Playlist) *playerv1.PlaylistInfo {
	return &playerv1.PlaylistInfo{
		PlaylistId:  p.ID,
		Title:       p.Title,
		Description: p.Description,
		CoverUrl:    p.CoverURL,
		TrackIds:    append([]string{}, p.TrackIDs...),
		UserCreated: p.UserCreated,
	}
}
