package repository

import (
	"database/sql"
	"fmt"
	"time"
)

type ItemStatus string

const (
	ItemStatusSubmitted ItemStatus = "submitted"
	ItemStatusFailed    ItemStatus = "failed"
)

type DeliveryItem struct {
	ID           int64      `json:"id"`
	DeliveryID   string     `json:"delivery_id"`
	Position     int        `json:"position"`
	Description  string     `json:"description"`
	Status       ItemStatus `json:"status"`
	RecordID     string     `json:"record_id,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type DeliveryItemRepository struct {
	db *sql.DB
}

func NewDeliveryItemRepository(db *sql.DB) *DeliveryItemRepository {
	return &DeliveryItemRepository{db: db}
}

func (r *DeliveryItemRepository) Create(item *DeliveryItem) error {
	query := `
		INSERT INTO delivery_items (delivery_id, position, description, status, record_id, error_message)
        VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		item.DeliveryID,
		item.Position,
		item.Description,
		item.Status,
		item.RecordID,
		item.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("Error trying to create delivery item: %w", err)
	}

	item.ID, err = result.LastInsertId()
	return err
}

func (r *DeliveryItemRepository) GetByDeliveryID(deliveryID string) ([]DeliveryItem, error) {
	query := `
	SELECT id, delivery_id, position, description, status, record_id, error_message, created_at
	FROM delivery_items WHERE delivery_id = ? ORDER BY position
	`
	rows, err := r.db.Query(query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("Error trying to get delivery items: %w", err)
	}
	defer rows.Close()

	items := []DeliveryItem{}
	for rows.Next() {
		var item DeliveryItem
		if err := rows.Scan(
			&item.ID,
			&item.DeliveryID,
			&item.Position,
			&item.Description,
			&item.Status,
			&item.RecordID,
			&item.ErrorMessage,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
