package client

import (
	"context"
	"fmt"

	"github.com/TWRT/memory-relay/internal/models"
)

// RecordStore creates task records in the target workspace database.
type RecordStore interface {
	CreateRecord(ctx context.Context, parent models.Parent, props models.RecordProperties) (*models.RecordRef, error)
}

// Notifier pushes a short message back to a user of the source service.
type Notifier interface {
	Notify(ctx context.Context, message, userID string) error
}

// StoreError is a rejection reported by the record store API.
type StoreError struct {
	Status  int
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("record store error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("record store error: status %d: %s: %s", e.Status, e.Code, e.Message)
}
