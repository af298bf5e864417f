package commands

import (
	"go.uber.org/zap"

	"github.com/luminalabs/lumina-cli/internal/api"
	"github.com/luminalabs/lumina-cli/internal/auth"
	"github.com/luminalabs/lumina-cli/internal/config"
	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/logging"
)

// Dependencies holds everything a command needs to talk to the service.
// Commands receive it assembled; tests construct it around a mock client.
type Dependencies struct {
	Config config.Config
	Creds  *auth.Credentials
	Store  *auth.Store
	// Client is the surface command logic calls; tests swap in a mock.
	Client api.LuminaClientInterface
	// Gateway is the same client in concrete form, for the TUI's
	// navigator wiring. Nil when Client is a test double.
	Gateway *api.LuminaClient
	Logger  *zap.Logger
}

// Close flushes the logger. Safe on a partially built value.
func (d *Dependencies) Close() {
	if d != nil && d.Logger != nil {
		_ = d.Logger.Sync()
	}
}

// buildDependencies assembles the shared command plumbing: env file,
// config with flag overrides, file logger, persisted credentials, and
// the API client. requireAuth rejects up front when no token is stored,
// so commands fail with a clear sign-in hint instead of a 401 round trip.
func buildDependencies(requireAuth bool) (*Dependencies, error) {
	if err := config.LoadEnvFile(""); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}
	if verboseFlag {
		cfg.Verbose = true
	}

	logger := logging.Nop()
	if logPath, err := config.GetLogPath(); err == nil {
		if fileLogger, err := logging.New(logPath, cfg.Verbose); err == nil {
			logger = fileLogger
		}
	}

	creds := auth.NewCredentials()
	store, err := auth.DefaultStore()
	if err != nil {
		return nil, err
	}
	if _, err := store.Hydrate(creds); err != nil {
		logger.Warn("failed to read stored token", zap.Error(err))
	}

	if requireAuth && !creds.IsAuthenticated() {
		return nil, apierrors.ErrNoCredentials
	}

	client, err := api.NewClient(cfg.BaseURL, creds, store,
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config:  cfg,
		Creds:   creds,
		Store:   store,
		Client:  client,
		Gateway: client,
		Logger:  logger,
	}, nil
}
