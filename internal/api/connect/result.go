// Package connect provides Connect RPC service implementations.
package connect

import (
	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/app/gate"
	"github.com/osa030/bibliasertaneja/internal/app/library"
	"github.com/osa030/bibliasertaneja/internal/app/session"
	"github.com/osa030/bibliasertaneja/internal/app/session/registry"
	"github.com/osa030/bibliasertaneja/internal/infra/config"
)

// outcomeCodes maps library and account errors to result codes. Gate
// outcomes are classified by gate.ReasonOf.
var outcomeCodes = []struct {
	err  error
	code string
}{
	{library.ErrDuplicateTrack, "duplicate_track"},
	{library.ErrPlaylistReadOnly, "playlist_read_only"},
	{registry.ErrAccountExists, "account_exists"},
	{registry.ErrAccountNotFound, "account_not_found"},
	{registry.ErrInvalidEmail, "invalid_email"},
}

// notFoundCodes maps lookup failures to the message code sent with
// CodeNotFound.
var notFoundCodes = []struct {
	err  error
	code string
}{
	{session.ErrTrackNotFound, "track_not_found"},
	{session.ErrAlbumNotFound, "album_not_found"},
	{library.ErrPlaylistNotFound, "playlist_not_found"},
}

// outcomeCode returns the result code for an expected outcome.
// ok is false when err is not an outcome.
func outcomeCode(err error) (string, bool) {
	if reason, ok := gate.ReasonOf(err); ok {
		return reason.Code(), true
	}
	for _, o := range outcomeCodes {
		if errors.Is(err, o.err) {
			return o.code, true
		}
	}
	return "", false
}

// outcome converts an operation error to a Result. Errors that are not
// outcomes are returned as Connect errors.
func outcome(cfg *config.Config, err error) (*playerv1.Result, error) {
	code, ok := outcomeCode(err)
	if !ok {
		return nil, toConnectError(cfg, err)
	}
	return &playerv1.Result{
		Success: code == gate.ReasonNone.Code(),
		Code:    code,
		Message: cfg.GetMessage(code),
	}, nil
}

// toConnectError converts a non-outcome error to a Connect error.
func toConnectError(cfg *config.Config, err error) error {
	for _, nf := range notFoundCodes {
		if errors.Is(err, nf.err) {
			return connect.NewError(connect.CodeNotFound, errors.New(cfg.GetMessage(nf.code)))
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}

// invalidArgument returns a CodeInvalidArgument error.
func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.Newf(format, args...))
}
