package app

import "github.com/Polqt/aica-bot-sub001/internal/apperr"

// Sentinel errors for common application errors
var (
	ErrNotLoggedIn   = apperr.New(apperr.KindAuth, "You are not logged in. Run 'aica auth login' first.")
	ErrNoAccessToken = apperr.New(apperr.KindAuth, "The server did not return an access token.")
	ErrNoUploads     = apperr.New(apperr.KindValidation, "No uploads recorded yet. Run 'aica resume upload <file>'.")
)
