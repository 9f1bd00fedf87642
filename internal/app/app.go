package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Polqt/aica-bot-sub001/internal/api"
	"github.com/Polqt/aica-bot-sub001/internal/auth"
	"github.com/Polqt/aica-bot-sub001/internal/config"
	"github.com/Polqt/aica-bot-sub001/internal/database"
	"github.com/Polqt/aica-bot-sub001/internal/validation"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

// Options locate the files the App uses. Empty values mean the defaults
// under ~/.aica.
type Options struct {
	ConfigPath string
	DBPath     string
	APIURL     string // overrides the configured base URL
	Verbose    bool
	LogOutput  io.Writer
}

// App is the dependency container for the CLI application
type App struct {
	Config     *config.Config
	ConfigPath string
	Store      *database.Store
	API        *api.Client
	HTTPClient *http.Client
	Log        *logrus.Logger
	Session    *models.Session
	Token      *auth.TokenInfo

	now func() time.Time
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	log, err := NewLogger(level, out)
	if err != nil {
		return nil, err
	}

	store, err := database.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Create HTTP client with timeout
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client, err := api.New(cfg.APIURL, httpClient, api.WithLogger(log))
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &App{
		Config:     cfg,
		ConfigPath: opts.ConfigPath,
		Store:      store,
		API:        client,
		HTTPClient: httpClient,
		Log:        log,
		now:        time.Now,
	}
	if err := a.restoreSession(); err != nil {
		a.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{"api_url": cfg.APIURL, "logged_in": client.HasToken()}).Debug("app initialized")
	return a, nil
}

// restoreSession loads the saved token. Expired or unreadable tokens are
// discarded so the user is asked to log in again.
func (a *App) restoreSession() error {
	session, err := a.Store.GetSession()
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	info, err := auth.CheckUsable(session.AccessToken, a.now())
	if err != nil {
		a.Log.WithError(err).Info("discarding saved session")
		return a.Store.DeleteSession()
	}

	a.Session = session
	a.Token = info
	a.API.SetToken(session.AccessToken)
	return nil
}

// UploadRules returns the file constraints from the configuration.
func (a *App) UploadRules() validation.Rules {
	return validation.NewRules(a.Config.Upload)
}

// SaveLogin stores a successful login and makes its token current.
func (a *App) SaveLogin(email string, resp *models.AuthResponse) error {
	if resp == nil || resp.AccessToken == "" {
		return ErrNoAccessToken
	}
	session := &models.Session{Email: email, AccessToken: resp.AccessToken, TokenType: resp.TokenType}
	if err := a.Store.SaveSession(session); err != nil {
		return err
	}

	a.Session = session
	a.Token = nil
	if info, err := auth.Inspect(resp.AccessToken); err == nil {
		a.Token = info
	}
	a.API.SetToken(resp.AccessToken)
	return nil
}

// Logout ends the backend session when there is one and always forgets the
// local session. A rejected token still counts as logged out.
func (a *App) Logout(ctx context.Context) error {
	var remoteErr error
	if a.API.HasToken() {
		if err := a.API.Logout(ctx); err != nil && !api.IsUnauthorized(err) {
			remoteErr = err
		}
	}
	if err := a.forgetSession(); err != nil {
		return err
	}
	return remoteErr
}

// RequireLogin returns ErrNotLoggedIn when no usable session exists.
func (a *App) RequireLogin() error {
	if !a.API.HasToken() {
		return ErrNotLoggedIn
	}
	return nil
}

// CheckSession forgets the local session when err says the backend
// rejected it, and returns err unchanged.
func (a *App) CheckSession(err error) error {
	if err != nil && api.IsUnauthorized(err) && a.Session != nil {
		if ferr := a.forgetSession(); ferr != nil {
			a.Log.WithError(ferr).Warn("failed to clear rejected session")
		}
	}
	return err
}

func (a *App) forgetSession() error {
	a.Session = nil
	a.Token = nil
	a.API.SetToken("")
	return a.Store.DeleteSession()
}

// Close closes all resources
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
