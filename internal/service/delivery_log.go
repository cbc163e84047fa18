package service

import (
	"fmt"

	"github.com/TWRT/memory-relay/internal/models"
	"github.com/TWRT/memory-relay/internal/repository"
	"github.com/google/uuid"
)

type DeliveryDetail struct {
	repository.Delivery
	Items []repository.DeliveryItem `json:"items"`
}

func (s *RelayService) auditEnabled() bool {
	return s.deliveryRepo != nil && s.itemRepo != nil
}

// startDelivery opens a delivery log entry and returns its id, or "" when the
// log is disabled or unavailable. Log failures never reach the caller.
func (s *RelayService) startDelivery(event models.Event, userID string, pending int) string {
	if !s.auditEnabled() {
		return ""
	}

	delivery := &repository.Delivery{
		ID:          uuid.NewString(),
		UserID:      userID,
		MemoryID:    event.ID,
		MemoryTitle: event.Title,
		Status:      repository.DeliveryStatusReceived,
		TotalItems:  pending,
	}
	if err := s.deliveryRepo.Create(delivery); err != nil {
		s.logger.Warn("Failed to record delivery", "user", userID, "error", err)
		return ""
	}
	return delivery.ID
}

func (s *RelayService) recordItem(deliveryID string, position int, result models.ProcessingResult) {
	if deliveryID == "" {
		return
	}

	item := &repository.DeliveryItem{
		DeliveryID:   deliveryID,
		Position:     position,
		Description:  result.Description,
		Status:       repository.ItemStatusSubmitted,
		RecordID:     result.RecordID,
		ErrorMessage: result.Error,
	}
	if !result.Succeeded {
		item.Status = repository.ItemStatusFailed
	}
	if err := s.itemRepo.Create(item); err != nil {
		s.logger.Warn("Failed to record delivery item", "delivery", deliveryID, "error", err)
	}
}

func (s *RelayService) completeDelivery(deliveryID string, summary models.Summary) {
	if deliveryID == "" {
		return
	}
	if err := s.deliveryRepo.Complete(deliveryID, summary.Processed, summary.Failed); err != nil {
		s.logger.Warn("Failed to complete delivery", "delivery", deliveryID, "error", err)
	}
}

func (s *RelayService) GetDeliveries() ([]repository.Delivery, error) {
	if !s.auditEnabled() {
		return nil, ErrAuditDisabled
	}
	deliveries, err := s.deliveryRepo.GetDeliveries()
	if err != nil {
		return nil, fmt.Errorf("get deliveries: %w", err)
	}
	return deliveries, nil
}

func (s *RelayService) GetDelivery(id string) (*DeliveryDetail, error) {
	if !s.auditEnabled() {
		return nil, ErrAuditDisabled
	}
	delivery, err := s.deliveryRepo.GetDelivery(id)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	items, err := s.itemRepo.GetByDeliveryID(id)
	if err != nil {
		return nil, fmt.Errorf("get delivery items: %w", err)
	}
	return &DeliveryDetail{Delivery: delivery, Items: items}, nil
}
