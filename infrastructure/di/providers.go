package di

import (
	"echoclient/application/ports"
	"echoclient/application/services"
	"echoclient/domain/session"
	"echoclient/infrastructure/api"
	"echoclient/infrastructure/config"
	"echoclient/infrastructure/credential"
	"echoclient/infrastructure/persistence/sqlite"
	"echoclient/interfaces/screens"

	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}
	return zapCfg.Build()
}

// ProvideCredentialStore creates the file-backed token store
func ProvideCredentialStore(cfg *config.Config, logger *zap.Logger) ports.CredentialStore {
	return credential.NewFileStore(cfg.CredentialPath(), logger)
}

// ProvideFeedCache opens the local feed snapshot database
func ProvideFeedCache(cfg *config.Config, logger *zap.Logger) (*sqlite.FeedCache, error) {
	return sqlite.OpenFeedCache(cfg.FeedCachePath(), logger)
}

// ProvideAPIClient creates the HTTP client for the Echo backend
func ProvideAPIClient(cfg *config.Config, creds ports.CredentialStore, logger *zap.Logger) ports.EchoAPI {
	gateway := api.NewGateway(cfg.BaseURL, cfg.RequestTimeout, creds, logger)
	return api.NewClient(gateway)
}

// ProvideSessionStore creates the in-memory session state
func ProvideSessionStore() *session.Store {
	return session.NewStore()
}

// ProvideSessionService creates the login/register/profile service
func ProvideSessionService(
	client ports.EchoAPI,
	creds ports.CredentialStore,
	store *session.Store,
	logger *zap.Logger,
) *services.SessionService {
	return services.NewSessionService(client, creds, store, logger)
}

// ProvideFeedSynchronizer creates the feed synchronization service
func ProvideFeedSynchronizer(
	client ports.EchoAPI,
	cache *sqlite.FeedCache,
	store *session.Store,
	logger *zap.Logger,
) *services.FeedSynchronizer {
	return services.NewFeedSynchronizer(client, cache, store, logger)
}

// ProvideFeedScreen creates the feed screen controller
func ProvideFeedScreen(
	feed *services.FeedSynchronizer,
	store *session.Store,
	logger *zap.Logger,
) *screens.FeedScreen {
	return screens.NewFeedScreen(feed, store, logger)
}
