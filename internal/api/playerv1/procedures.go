package playerv1

const (
	// PlayerServiceName is the fully-qualified name of the PlayerService service.
	PlayerServiceName = "bibliasertaneja.player.v1.PlayerService"
	// LibraryServiceName is the fully-qualified name of the LibraryService service.
	LibraryServiceName = "bibliasertaneja.player.v1.LibraryService"
)

// PlayerService procedures.
const (
	PlayerServiceSelectTrackProcedure            = "/" + PlayerServiceName + "/SelectTrack"
	PlayerServiceTogglePlaybackProcedure         = "/" + PlayerServiceName + "/TogglePlayback"
	PlayerServiceAdvanceProcedure                = "/" + PlayerServiceName + "/Advance"
	PlayerServiceSeekProcedure                   = "/" + PlayerServiceName + "/Seek"
	PlayerServiceSetVolumeProcedure              = "/" + PlayerServiceName + "/SetVolume"
	PlayerServiceGetSnapshotProcedure            = "/" + PlayerServiceName + "/GetSnapshot"
	PlayerServiceSubscribeNotificationsProcedure = "/" + PlayerServiceName + "/SubscribeNotifications"
	PlayerServiceRegisterProcedure               = "/" + PlayerServiceName + "/Register"
	PlayerServiceLoginProcedure                  = "/" + PlayerServiceName + "/Login"
	PlayerServiceContinueAsGuestProcedure        = "/" + PlayerServiceName + "/ContinueAsGuest"
	PlayerServiceLogoutProcedure                 = "/" + PlayerServiceName + "/Logout"
	PlayerServiceSetOfflineProcedure             = "/" + PlayerServiceName + "/SetOffline"
)

// LibraryService procedures.
const (
	LibraryServiceListTracksProcedure         = "/" + LibraryServiceName + "/ListTracks"
	LibraryServiceToggleDownloadProcedure     = "/" + LibraryServiceName + "/ToggleDownload"
	LibraryServiceToggleFavoriteProcedure     = "/" + LibraryServiceName + "/ToggleFavorite"
	LibraryServiceCreatePlaylistProcedure     = "/" + LibraryServiceName + "/CreatePlaylist"
	LibraryServiceDeletePlaylistProcedure     = "/" + LibraryServiceName + "/DeletePlaylist"
	LibraryServiceAddToPlaylistProcedure      = "/" + LibraryServiceName + "/AddToPlaylist"
	LibraryServiceRemoveFromPlaylistProcedure = "/" + LibraryServiceName + "/RemoveFromPlaylist"
	LibraryServiceListPlaylistsProcedure      = "/" + LibraryServiceName + "/ListPlaylists"
	LibraryServicePlayPlaylistProcedure       = "/" + LibraryServiceName + "/PlayPlaylist"
	LibraryServicePlayAlbumProcedure          = "/" + LibraryServiceName + "/PlayAlbum"
)
