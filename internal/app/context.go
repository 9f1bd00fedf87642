package app

import (
	"context"
	"errors"
)

// contextKey is used to store App in context
type contextKey struct{}

var appContextKey = contextKey{}

var errNoApp = errors.New("application not initialized")

// FromContext retrieves the App stored by WithApp.
func FromContext(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appContextKey).(*App)
	if !ok || app == nil {
		return nil, errNoApp
	}
	return app, nil
}

// WithApp stores the App in context
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appContextKey, app)
}
