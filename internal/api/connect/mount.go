package connect

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1/playerv1connect"
	"github.com/osa030/bibliasertaneja/internal/app/session"
	"github.com/osa030/bibliasertaneja/internal/infra/config"
)

// Mount registers the player and library services on mux, guarded by the
// configured API token.
func Mount(mux *http.ServeMux, sessionMgr *session.Manager, cfg *config.Config, opts ...connect.HandlerOption) {
	opts = append(opts, connect.WithInterceptors(NewTokenInterceptor(cfg.Server.Token)))

	playerPath, playerHandler := playerv1connect.NewPlayerServiceHandler(
		NewPlayerService(sessionMgr, cfg), opts...)
	libraryPath, libraryHandler := playerv1connect.NewLibraryServiceHandler(
		NewLibraryService(sessionMgr, cfg), opts...)

	mux.Handle(playerPath, playerHandler)
	mux.Handle(libraryPath, libraryHandler)
}
