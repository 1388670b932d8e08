package handler

import (
	"github.com/getmelinks/getmelinks/internal/config"
	"github.com/getmelinks/getmelinks/internal/database"
	"github.com/getmelinks/getmelinks/internal/logger"
	"github.com/getmelinks/getmelinks/internal/service"
)

// Handler holds all HTTP handlers
type Handler struct {
	contacts *service.ContactService
	rdb      *database.Redis // may be nil when rate limiting is disabled
	log      *logger.Logger
	cfg      *config.Config
}

// New creates a new Handler instance
func New(contacts *service.ContactService, rdb *database.Redis, log *logger.Logger, cfg *config.Config) *Handler {
	return &Handler{
		contacts: contacts,
		rdb:      rdb,
		log:      log,
		cfg:      cfg,
	}
}
