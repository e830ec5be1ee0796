package di

import (
	"echoclient/application/ports"
	"echoclient/application/services"
	"echoclient/domain/session"
	"echoclient/infrastructure/config"
	"echoclient/infrastructure/persistence/sqlite"
	"echoclient/interfaces/screens"

	"go.uber.org/zap"
)

// Container holds all client dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Credentials ports.CredentialStore
	FeedCache   *sqlite.FeedCache
	API         ports.EchoAPI
	Sessions    *session.Store
	SessionSvc  *services.SessionService
	FeedSync    *services.FeedSynchronizer
	FeedScreen  *screens.FeedScreen
}

// Close releases everything the container owns. Safe to call once at exit.
func (c *Container) Close() {
	if c.FeedCache != nil {
		if err := c.FeedCache.Close(); err != nil {
			c.Logger.Warn("closing feed cache", zap.Error(err))
		}
	}
	_ = c.Logger.Sync()
}
