// Package playerv1 defines the wire messages of the bibliasertaneja.player.v1
// services. Messages are encoded as JSON.
package playerv1

// NotificationType identifies the kind of a pushed notification.
type NotificationType string

const (
	NotificationTypeInitialState   NotificationType = "initial_state"
	NotificationTypeTrackStarted   NotificationType = "track_started"
	NotificationTypeTrackEnded     NotificationType = "track_ended"
	NotificationTypeStateChanged   NotificationType = "state_changed"
	NotificationTypeSeeked         NotificationType = "seeked"
	NotificationTypeProgress       NotificationType = "progress"
	NotificationTypeVolumeChanged  NotificationType = "volume_changed"
	NotificationTypePreviewExpired NotificationType = "preview_expired"
	NotificationTypeReset          NotificationType = "reset"
	NotificationTypeSessionChanged NotificationType = "session_changed"
)

// Result is the outcome of a user action. Denials are reported here, not as
// RPC errors.
type Result struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// TrackInfo describes a catalog track from the caller's point of view.
type TrackInfo struct {
	TrackId         string `json:"trackId"`
	Title           string `json:"title"`
	BibleReference  string `json:"bibleReference,omitempty"`
	Description     string `json:"description,omitempty"`
	Album           string `json:"album,omitempty"`
	CoverUrl        string `json:"coverUrl,omitempty"`
	AudioUrl        string `json:"audioUrl,omitempty"`
	DurationSeconds int32  `json:"durationSeconds"`
	HasLyrics       bool   `json:"hasLyrics,omitempty"`
	Encrypted       bool   `json:"encrypted,omitempty"`
	Downloaded      bool   `json:"downloaded,omitempty"`
	Favorite        bool   `json:"favorite,omitempty"`
}

// AlbumInfo describes an album.
type AlbumInfo struct {
	AlbumId  string   `json:"albumId"`
	Title    string   `json:"title"`
	Author   string   `json:"author,omitempty"`
	CoverUrl string   `json:"coverUrl,omitempty"`
	Year     int32    `json:"year,omitempty"`
	TrackIds []string `json:"trackIds"`
}

// PlaylistInfo describes a playlist.
type PlaylistInfo struct {
	PlaylistId  string   `json:"playlistId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	CoverUrl    string   `json:"coverUrl,omitempty"`
	TrackIds    []string `json:"trackIds"`
	UserCreated bool     `json:"userCreated,omitempty"`
}

// PlayerState is the now-playing snapshot.
type PlayerState struct {
	TrackId          string     `json:"trackId,omitempty"`
	Track            *TrackInfo `json:"track,omitempty"`
	State            string     `json:"state"`
	ElapsedSeconds   float64    `json:"elapsedSeconds"`
	RemainingSeconds float64    `json:"remainingSeconds"`
	Volume           float64    `json:"volume"`
	PreviewLocked    bool       `json:"previewLocked,omitempty"`
}

// SessionInfo describes the listener session.
type SessionInfo struct {
	Role                string  `json:"role"`
	UserId              string  `json:"userId,omitempty"`
	DisplayName         string  `json:"displayName,omitempty"`
	Email               string  `json:"email,omitempty"`
	Offline             bool    `json:"offline"`
	PreviewLimitSeconds float64 `json:"previewLimitSeconds"`
	DownloadedCount     int32   `json:"downloadedCount"`
	FavoriteCount       int32   `json:"favoriteCount"`
}

// Notification is pushed to subscribers after every player change.
type Notification struct {
	Type        NotificationType `json:"type"`
	SequenceNo  uint64           `json:"sequenceNo"`
	SessionInfo *SessionInfo     `json:"sessionInfo,omitempty"`
	PlayerState *PlayerState     `json:"playerState,omitempty"`
}

// PlayerResponse is returned by every transport operation.
type PlayerResponse struct {
	Result *Result      `json:"result"`
	State  *PlayerState `json:"state"`
}

// SessionResponse is returned by every account operation.
type SessionResponse struct {
	Result      *Result      `json:"result"`
	SessionInfo *SessionInfo `json:"sessionInfo"`
}

type SelectTrackRequest struct {
	TrackId string `json:"trackId"`
}

type TogglePlaybackRequest struct{}

type AdvanceRequest struct {
	Direction string `json:"direction"` // "next" or "prev"
}

type SeekRequest struct {
	PositionSeconds float64 `json:"positionSeconds"`
}

type SetVolumeRequest struct {
	Volume float64 `json:"volume"`
}

type GetSnapshotRequest struct{}

type GetSnapshotResponse struct {
	SessionInfo *SessionInfo `json:"sessionInfo"`
	State       *PlayerState `json:"state"`
}

type SubscribeNotificationsRequest struct{}

type RegisterRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type ContinueAsGuestRequest struct{}

type LogoutRequest struct{}

type SetOfflineRequest struct {
	Enabled bool `json:"enabled"`
}
