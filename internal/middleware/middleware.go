package middleware

import (
	"github.com/getmelinks/getmelinks/internal/config"
	"github.com/getmelinks/getmelinks/internal/database"
	"github.com/getmelinks/getmelinks/internal/logger"
)

// Middleware holds all HTTP middleware
type Middleware struct {
	rdb *database.Redis // may be nil when rate limiting is disabled
	log *logger.Logger
	cfg *config.Config
}

// New creates a new Middleware instance
func New(rdb *database.Redis, log *logger.Logger, cfg *config.Config) *Middleware {
	return &Middleware{
		rdb: rdb,
		log: log,
		cfg: cfg,
	}
}
