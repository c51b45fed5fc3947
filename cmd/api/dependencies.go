package main

import (
	"log/slog"

	"github.com/wasely/courier-admin/internal/domain/orderimport/gazetteer"
	"github.com/wasely/courier-admin/internal/domain/orderimport/handler"
	"github.com/wasely/courier-admin/internal/domain/orderimport/service"
	"github.com/wasely/courier-admin/pkg/config"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	ReferenceClient *gazetteer.Client
	ImportService   *service.ImportService
	ImportHandler   *handler.ImportHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.ReferenceClient = gazetteer.NewClient(cfg.Platform.BaseURL, cfg.Platform.Token, logger)
	deps.ImportService = service.NewImportService(deps.ReferenceClient, logger)
	deps.ImportHandler = handler.NewImportHandler(deps.ImportService, logger)

	logger.Info("all dependencies initialized successfully")
	return deps
}
