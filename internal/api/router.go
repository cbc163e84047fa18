package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/TWRT/memory-relay/internal/api/handlers"
	"github.com/TWRT/memory-relay/internal/client"
	"github.com/TWRT/memory-relay/internal/client/clickup"
	"github.com/TWRT/memory-relay/internal/client/notion"
	"github.com/TWRT/memory-relay/internal/client/omi"
	"github.com/TWRT/memory-relay/internal/config"
	"github.com/TWRT/memory-relay/internal/models"
	"github.com/TWRT/memory-relay/internal/repository"
	"github.com/TWRT/memory-relay/internal/service"
)

// SetupRouter builds the clients and repositories once and shares them across
// requests. db may be nil to run without the delivery log.
func SetupRouter(logger *slog.Logger, db *sql.DB, cfg config.Config) *http.ServeMux {
	var store client.RecordStore
	switch {
	case !cfg.RecordStoreEnabled():
		logger.Warn("Record store credentials not set, tasks cannot be created", "record_store", cfg.Backend)
	case cfg.Backend == config.BackendClickUp:
		store = clickup.NewClickUpClient(cfg.ClickUpToken)
	default:
		store = notion.NewNotionClient(cfg.NotionToken)
	}

	var notifier client.Notifier
	if cfg.NotifierEnabled() {
		notifier = omi.NewOmiClient(cfg.OmiBaseURL, cfg.OmiAppID, cfg.OmiAPIKey)
	}

	var deliveryRepo *repository.DeliveryRepository
	var itemRepo *repository.DeliveryItemRepository
	if db != nil {
		deliveryRepo = repository.NewDeliveryRepository(db)
		itemRepo = repository.NewDeliveryItemRepository(db)
	}

	relayService := service.NewRelayService(
		logger,
		store,
		notifier,
		models.Parent{ContainerID: cfg.ContainerID()},
		cfg.Mapping,
		deliveryRepo,
		itemRepo,
	)

	return NewRouter(logger, relayService)
}

func NewRouter(logger *slog.Logger, relayService *service.RelayService) *http.ServeMux {
	mux := http.NewServeMux()

	webhookHandler := handlers.NewWebhookHandler(relayService, logger)
	deliveryHandler := handlers.NewDeliveryHandler(relayService)

	mux.HandleFunc("/omi-webhook", webhookHandler.HandleMemory)
	mux.HandleFunc("/api/webhook", webhookHandler.HandleMemory)
	mux.HandleFunc("GET /health", webhookHandler.Health)

	mux.HandleFunc("GET /deliveries", deliveryHandler.ListDeliveries)
	mux.HandleFunc("GET /deliveries/{id}", deliveryHandler.GetDelivery)

	return mux
}
