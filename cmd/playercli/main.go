// Package main provides the player CLI for driving a running server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/bibliasertaneja/internal/api/connect"
	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/api/playerv1/playerv1connect"
)

var (
	app    = kingpin.New("bibliasertaneja-cli", "Bíblia Sertaneja player client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "API token").Envar("PLAYER_API_TOKEN").String()

	// transport
	playCmd     = app.Command("play", "Select a track (selecting the current one toggles)")
	playTrackID = playCmd.Arg("track-id", "Track ID").Required().String()
	toggleCmd   = app.Command("toggle", "Play or pause")
	nextCmd     = app.Command("next", "Skip to the next track")
	prevCmd     = app.Command("prev", "Go back to the previous track")
	seekCmd     = app.Command("seek", "Move the playhead")
	seekSeconds = seekCmd.Arg("seconds", "Position in seconds").Required().Float64()
	volumeCmd   = app.Command("volume", "Set the volume")
	volumeLevel = volumeCmd.Arg("level", "Volume from 0.0 to 1.0").Required().Float64()
	statusCmd   = app.Command("status", "Show the session and player state")
	watchCmd    = app.Command("watch", "Subscribe to notifications")

	// session
	registerCmd   = app.Command("register", "Create an account and log in")
	registerEmail = registerCmd.Arg("email", "Email").Required().String()
	registerName  = registerCmd.Arg("name", "Display name (optional)").String()
	loginCmd      = app.Command("login", "Log in")
	loginEmail    = loginCmd.Arg("email", "Email").Required().String()
	guestCmd      = app.Command("guest", "Continue as guest")
	logoutCmd     = app.Command("logout", "Log out")
	offlineCmd    = app.Command("offline", "Switch offline mode")
	offlineMode   = offlineCmd.Arg("mode", "on or off").Required().Enum("on", "off")

	// library
	tracksCmd          = app.Command("tracks", "List tracks")
	tracksAlbum        = tracksCmd.Flag("album", "Only tracks of this album").String()
	tracksDownloaded   = tracksCmd.Flag("downloaded", "Only downloaded tracks").Bool()
	tracksFavorites    = tracksCmd.Flag("favorites", "Only favorite tracks").Bool()
	downloadCmd        = app.Command("download", "Toggle the offline copy of a track")
	downloadTrackID    = downloadCmd.Arg("track-id", "Track ID").Required().String()
	favoriteCmd        = app.Command("favorite", "Toggle a favorite")
	favoriteTrackID    = favoriteCmd.Arg("track-id", "Track ID").Required().String()
	playlistsCmd       = app.Command("playlists", "List playlists")
	createPlaylistCmd  = app.Command("create-playlist", "Create a playlist")
	createPlaylistName = createPlaylistCmd.Arg("title", "Title (optional)").String()
	deletePlaylistCmd  = app.Command("delete-playlist", "Delete a playlist")
	deletePlaylistID   = deletePlaylistCmd.Arg("playlist-id", "Playlist ID").Required().String()
	addCmd             = app.Command("add", "Add a track to a playlist")
	addPlaylistID      = addCmd.Arg("playlist-id", "Playlist ID").Required().String()
	addTrackID         = addCmd.Arg("track-id", "Track ID").Required().String()
	removeCmd          = app.Command("remove", "Remove a track from a playlist")
	removePlaylistID   = removeCmd.Arg("playlist-id", "Playlist ID").Required().String()
	removeTrackID      = removeCmd.Arg("track-id", "Track ID").Required().String()
	playPlaylistCmd    = app.Command("play-playlist", "Play a playlist")
	playPlaylistID     = playPlaylistCmd.Arg("playlist-id", "Playlist ID").Required().String()
	playAlbumCmd       = app.Command("play-album", "Play an album")
	playAlbumID        = playAlbumCmd.Arg("album-id", "Album ID").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	opts := []connect.ClientOption{connect.WithInterceptors(apiconnect.WithToken(*token))}
	player := playerv1connect.NewPlayerServiceClient(http.DefaultClient, *server, opts...)
	lib := playerv1connect.NewLibraryServiceClient(http.DefaultClient, *server, opts...)

	ctx := context.Background()

	switch command {
	case playCmd.FullCommand():
		printPlayer(player.SelectTrack(ctx, connect.NewRequest(&playerv1.SelectTrackRequest{TrackId: *playTrackID})))
	case toggleCmd.FullCommand():
		printPlayer(player.TogglePlayback(ctx, connect.NewRequest(&playerv1.TogglePlaybackRequest{})))
	case nextCmd.FullCommand():
		printPlayer(player.Advance(ctx, connect.NewRequest(&playerv1.AdvanceRequest{Direction: "next"})))
	case prevCmd.FullCommand():
		printPlayer(player.Advance(ctx, connect.NewRequest(&playerv1.AdvanceRequest{Direction: "prev"})))
	case seekCmd.FullCommand():
		printPlayer(player.Seek(ctx, connect.NewRequest(&playerv1.SeekRequest{PositionSeconds: *seekSeconds})))
	case volumeCmd.FullCommand():
		printPlayer(player.SetVolume(ctx, connect.NewRequest(&playerv1.SetVolumeRequest{Volume: *volumeLevel})))
	case statusCmd.FullCommand():
		status(ctx, player)
	case watchCmd.FullCommand():
		watch(ctx, player)

	case registerCmd.FullCommand():
		printSession(player.Register(ctx, connect.NewRequest(&playerv1.RegisterRequest{
			DisplayName: *registerName,
			Email:       *registerEmail,
		})))
	case loginCmd.FullCommand():
		printSession(player.Login(ctx, connect.NewRequest(&playerv1.LoginRequest{Email: *loginEmail})))
	case guestCmd.FullCommand():
		printSession(player.ContinueAsGuest(ctx, connect.NewRequest(&playerv1.ContinueAsGuestRequest{})))
	case logoutCmd.FullCommand():
		printSession(player.Logout(ctx, connect.NewRequest(&playerv1.LogoutRequest{})))
	case offlineCmd.FullCommand():
		printSession(player.SetOffline(ctx, connect.NewRequest(&playerv1.SetOfflineRequest{Enabled: *offlineMode == "on"})))

	case tracksCmd.FullCommand():
		listTracks(ctx, lib)
	case downloadCmd.FullCommand():
		resp, err := lib.ToggleDownload(ctx, connect.NewRequest(&playerv1.ToggleDownloadRequest{TrackId: *downloadTrackID}))
		printToggle("Downloaded", resp, err)
	case favoriteCmd.FullCommand():
		resp, err := lib.ToggleFavorite(ctx, connect.NewRequest(&playerv1.ToggleFavoriteRequest{TrackId: *favoriteTrackID}))
		printToggle("Favorite", resp, err)
	case playlistsCmd.FullCommand():
		listPlaylists(ctx, lib)
	case createPlaylistCmd.FullCommand():
		printPlaylist(lib.CreatePlaylist(ctx, connect.NewRequest(&playerv1.CreatePlaylistRequest{Title: *createPlaylistName})))
	case deletePlaylistCmd.FullCommand():
		printPlaylist(lib.DeletePlaylist(ctx, connect.NewRequest(&playerv1.DeletePlaylistRequest{PlaylistId: *deletePlaylistID})))
	case addCmd.FullCommand():
		printPlaylist(lib.AddToPlaylist(ctx, connect.NewRequest(&playerv1.AddToPlaylistRequest{
			PlaylistId: *addPlaylistID,
			TrackId:    *addTrackID,
		})))
	case removeCmd.FullCommand():
		printPlaylist(lib.RemoveFromPlaylist(ctx, connect.NewRequest(&playerv1.RemoveFromPlaylistRequest{
			PlaylistId: *removePlaylistID,
			TrackId:    *removeTrackID,
		})))
	case playPlaylistCmd.FullCommand():
		printPlayer(lib.PlayPlaylist(ctx, connect.NewRequest(&playerv1.PlayPlaylistRequest{PlaylistId: *playPlaylistID})))
	case playAlbumCmd.FullCommand():
		printPlayer(lib.PlayAlbum(ctx, connect.NewRequest(&playerv1.PlayAlbumRequest{AlbumId: *playAlbumID})))
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printResult(r *playerv1.Result) {
	if r == nil {
		return
	}
	if r.Success {
		fmt.Printf("Success: %s\n", r.Message)
	} else {
		fmt.Printf("Rejected [%s]: %s\n", r.Code, r.Message)
	}
}

func printPlayer(resp *connect.Response[playerv1.PlayerResponse], err error) {
	exitOnError(err)
	printResult(resp.Msg.Result)
	printPlayerState(resp.Msg.State)
}

func printSession(resp *connect.Response[playerv1.SessionResponse], err error) {
	exitOnError(err)
	printResult(resp.Msg.Result)
	printSessionInfo(resp.Msg.SessionInfo)
}

func printToggle(label string, resp *connect.Response[playerv1.ToggleResponse], err error) {
	exitOnError(err)
	printResult(resp.Msg.Result)
	if resp.Msg.Result.Success {
		fmt.Printf("%s: %v\n", label, resp.Msg.Enabled)
	}
}

func printPlaylist(resp *connect.Response[playerv1.PlaylistResponse], err error) {
	exitOnError(err)
	printResult(resp.Msg.Result)
	if p := resp.Msg.Playlist; p != nil {
		fmt.Printf("Playlist %s: %s %v\n", p.PlaylistId, p.Title, p.TrackIds)
	}
}

func status(ctx context.Context, client *playerv1connect.PlayerServiceClient) {
	resp, err := client.GetSnapshot(ctx, connect.NewRequest(&playerv1.GetSnapshotRequest{}))
	exitOnError(err)
	printSessionInfo(resp.Msg.SessionInfo)
	printPlayerState(resp.Msg.State)
}

func listTracks(ctx context.Context, client *playerv1connect.LibraryServiceClient) {
	resp, err := client.ListTracks(ctx, connect.NewRequest(&playerv1.ListTracksRequest{
		AlbumId:        *tracksAlbum,
		DownloadedOnly: *tracksDownloaded,
		FavoritesOnly:  *tracksFavorites,
	}))
	exitOnError(err)

	for _, t := range resp.Msg.Tracks {
		var flags []string
		if t.Downloaded {
			flags = append(flags, "downloaded")
		}
		if t.Favorite {
			flags = append(flags, "favorite")
		}
		fmt.Printf("  %-10s %-32s %-20s %s  %s\n",
			t.TrackId, t.Title, t.BibleReference, formatSeconds(float64(t.DurationSeconds)), strings.Join(flags, ","))
	}
	for _, a := range resp.Msg.Albums {
		fmt.Printf("Album %s: %s (%s, %d) %v\n", a.AlbumId, a.Title, a.Author, a.Year, a.TrackIds)
	}
}

func listPlaylists(ctx context.Context, client *playerv1connect.LibraryServiceClient) {
	resp, err := client.ListPlaylists(ctx, connect.NewRequest(&playerv1.ListPlaylistsRequest{}))
	exitOnError(err)

	for _, p := range resp.Msg.Playlists {
		owner := "curated"
		if p.UserCreated {
			owner = "mine"
		}
		fmt.Printf("  %-36s %-28s [%s] %d tracks\n", p.PlaylistId, p.Title, owner, len(p.TrackIds))
	}
}

func watch(ctx context.Context, client *playerv1connect.PlayerServiceClient) {
	stream, err := client.SubscribeNotifications(ctx, connect.NewRequest(&playerv1.SubscribeNotificationsRequest{}))
	exitOnError(err)

	fmt.Println("Subscribed to notifications. Press Ctrl+C to exit.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nUnsubscribing...")
		os.Exit(0)
	}()

	for stream.Receive() {
		printNotification(stream.Msg())
	}

	if err := stream.Err(); err != nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}

func printNotification(n *playerv1.Notification) {
	// Progress ticks are printed on one line
	if n.Type == playerv1.NotificationTypeProgress && n.PlayerState != nil {
		fmt.Printf("\r[%d] %s / -%s   ", n.SequenceNo,
			formatSeconds(n.PlayerState.ElapsedSeconds), formatSeconds(n.PlayerState.RemainingSeconds))
		return
	}

	fmt.Printf("\n[Sequence: %d] === %s ===\n", n.SequenceNo, strings.ToUpper(strings.ReplaceAll(string(n.Type), "_", " ")))
	printSessionInfo(n.SessionInfo)
	printPlayerState(n.PlayerState)
}

func printSessionInfo(s *playerv1.SessionInfo) {
	if s == nil {
		return
	}
	fmt.Println("Session:")
	fmt.Printf("  Role: %s\n", s.Role)
	if s.UserId != "" {
		fmt.Printf("  User: %s <%s> (%s)\n", s.DisplayName, s.Email, s.UserId)
	}
	fmt.Printf("  Offline: %v (%d downloaded)\n", s.Offline, s.DownloadedCount)
	fmt.Printf("  Favorites: %d\n", s.FavoriteCount)
	fmt.Printf("  Preview Limit: %s\n", formatSeconds(s.PreviewLimitSeconds))
}

func printPlayerState(p *playerv1.PlayerState) {
	if p == nil {
		return
	}
	fmt.Println("Player:")
	fmt.Printf("  State: %s\n", formatState(p.State, p.PreviewLocked))
	if p.Track != nil {
		fmt.Printf("  Track: %s - %s (%s)\n", p.Track.TrackId, p.Track.Title, p.Track.BibleReference)
		fmt.Printf("  Position: %s / %s\n",
			formatSeconds(p.ElapsedSeconds), formatSeconds(float64(p.Track.DurationSeconds)))
	}
	fmt.Printf("  Volume: %.0f%%\n", p.Volume*100)
}

func formatState(state string, previewLocked bool) string {
	switch {
	case previewLocked:
		return "⏸  Paused (preview ended, log in to continue)"
	case state == "playing":
		return "▶️  Playing"
	case state == "paused":
		return "⏸  Paused"
	case state == "buffering":
		return "⏳ Buffering"
	default:
		return "❓ Unknown"
	}
}

func formatSeconds(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	s := int(sec)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
