package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/TWRT/memory-relay/internal/client"
	"github.com/TWRT/memory-relay/internal/config"
	"github.com/TWRT/memory-relay/internal/models"
	"github.com/TWRT/memory-relay/internal/repository"
)

var (
	ErrRecordStoreUnavailable = errors.New("record store is not configured")
	ErrAuditDisabled          = errors.New("delivery log is disabled")
)

// RelayService turns memory action items into task records. The mapping is
// fixed at construction, so every item of every invocation sees the same one.
type RelayService struct {
	logger       *slog.Logger
	store        client.RecordStore
	notifier     client.Notifier
	parent       models.Parent
	mapping      config.FieldMapping
	deliveryRepo *repository.DeliveryRepository
	itemRepo     *repository.DeliveryItemRepository
}

// NewRelayService wires the relay. notifier, deliveryRepo and itemRepo may be
// nil to disable notifications and the delivery log.
func NewRelayService(
	logger *slog.Logger,
	store client.RecordStore,
	notifier client.Notifier,
	parent models.Parent,
	mapping config.FieldMapping,
	deliveryRepo *repository.DeliveryRepository,
	itemRepo *repository.DeliveryItemRepository,
) *RelayService {
	return &RelayService{
		logger:       logger,
		store:        store,
		notifier:     notifier,
		parent:       parent,
		mapping:      mapping,
		deliveryRepo: deliveryRepo,
		itemRepo:     itemRepo,
	}
}

func (s *RelayService) RecordStoreConfigured() bool {
	return s.store != nil
}

func (s *RelayService) NotifierConfigured() bool {
	return s.notifier != nil
}

// HandleEvent relays every pending action item of event. The returned error
// is only set when nothing could be attempted; per-item failures are part of
// the summary.
func (s *RelayService) HandleEvent(ctx context.Context, event models.Event, userID string) (models.Summary, error) {
	items := ExtractPendingItems(event)
	s.logger.Info("Received memory", "user", userID, "title", event.Title, "action_items", len(event.ActionItems), "pending", len(items))

	if len(items) == 0 {
		s.logger.Info("No action items found in this memory", "user", userID)
		return models.NewSummary(nil), nil
	}

	if s.store == nil {
		return models.Summary{}, ErrRecordStoreUnavailable
	}

	deliveryID := s.startDelivery(event, userID, len(items))
	results := s.Process(ctx, items, event, userID, deliveryID)
	summary := models.NewSummary(results)
	s.completeDelivery(deliveryID, summary)

	s.logger.Info("Memory relayed", "user", userID, "processed", summary.Processed, "failed", summary.Failed)
	return summary, nil
}

// Process submits items one at a time. A failing item never stops the ones
// after it.
func (s *RelayService) Process(ctx context.Context, items []models.ActionItem, event models.Event, userID, deliveryID string) []models.ProcessingResult {
	results := make([]models.ProcessingResult, 0, len(items))
	for i, item := range items {
		result := s.processItem(ctx, item, event)

		if result.Succeeded {
			s.notifyBestEffort(ctx, "Task added: "+item.Description, userID)
		} else {
			s.notifyBestEffort(ctx, "Failed to add task: "+item.Description, userID)
		}

		s.recordItem(deliveryID, i, result)
		results = append(results, result)
	}
	return results
}

func (s *RelayService) processItem(ctx context.Context, item models.ActionItem, event models.Event) models.ProcessingResult {
	result := models.ProcessingResult{Description: item.Description}

	props, err := BuildRecordProperties(s.mapping, item, event)
	if err != nil {
		s.logger.Error("Failed to map action item", "description", item.Description, "error", err)
		result.Error = err.Error()
		return result
	}

	if props.Date != nil {
		if _, err := models.ParseTimestamp(props.Date.Start); err != nil {
			s.logger.Warn("Dropping unreadable date", "description", item.Description, "property", props.Date.Property, "error", err)
			props.Date = nil
		}
	}

	ref, err := s.store.CreateRecord(ctx, s.parent, props)
	if err != nil {
		var storeErr *client.StoreError
		if errors.As(err, &storeErr) {
			s.logger.Error("Failed to add task", "description", item.Description,
				"status", storeErr.Status, "code", storeErr.Code, "error", err)
			result.Error = terseStoreError(storeErr)
		} else {
			s.logger.Error("Failed to add task", "description", item.Description, "error", err)
			result.Error = err.Error()
		}
		return result
	}

	result.Succeeded = true
	if ref != nil {
		result.RecordID = ref.ID
	}
	s.logger.Info("Added task", "description", item.Description, "record", result.RecordID)
	return result
}

// notifyBestEffort reports an item outcome to the user. Errors are logged and
// dropped; the outcome is already final.
func (s *RelayService) notifyBestEffort(ctx context.Context, message, userID string) {
	if s.notifier == nil || userID == "" {
		return
	}
	if err := s.notifier.Notify(ctx, message, userID); err != nil {
		s.logger.Warn("Failed to send notification", "user", userID, "error", err)
	}
}

func terseStoreError(err *client.StoreError) string {
	switch {
	case err.Code != "" && err.Message != "":
		return fmt.Sprintf("%s: %s", err.Code, err.Message)
	case err.Message != "":
		return err.Message
	default:
		return err.Error()
	}
}
