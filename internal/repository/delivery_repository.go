package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrDeliveryNotFound = errors.New("delivery not found")

type DeliveryStatus string

const (
	DeliveryStatusReceived  DeliveryStatus = "received"
	DeliveryStatusCompleted DeliveryStatus = "completed"
	DeliveryStatusPartial   DeliveryStatus = "partial"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

type Delivery struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	MemoryID       string         `json:"memory_id"`
	MemoryTitle    string         `json:"memory_title"`
	Status         DeliveryStatus `json:"status"`
	TotalItems     int            `json:"total_items"`
	ProcessedItems int            `json:"processed_items"`
	FailedItems    int            `json:"failed_items"`
	ReceivedAt     time.Time      `json:"received_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
}

type DeliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(delivery *Delivery) error {
	query := `
	INSERT INTO deliveries (id, user_id, memory_id, memory_title, status, total_items)
        VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		delivery.ID,
		delivery.UserID,
		delivery.MemoryID,
		delivery.MemoryTitle,
		delivery.Status,
		delivery.TotalItems,
	)
	if err != nil {
		return fmt.Errorf("Error trying to create the delivery: %w", err)
	}

	return nil
}

// Complete stores the final counts and derives the delivery status from them.
func (r *DeliveryRepository) Complete(id string, processed, failed int) error {
	status := DeliveryStatusCompleted
	switch {
	case failed > 0 && processed == 0:
		status = DeliveryStatusFailed
	case failed > 0:
		status = DeliveryStatusPartial
	}

	query := `
	UPDATE deliveries
	SET processed_items = ?, failed_items = ?, status = ?, completed_at = CURRENT_TIMESTAMP
	WHERE id = ?
	`
	_, err := r.db.Exec(query, processed, failed, status, id)
	if err != nil {
		return fmt.Errorf("Error trying to complete the delivery: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) GetDeliveries() ([]Delivery, error) {
	query := `
	SELECT id, user_id, memory_id, memory_title, status, total_items,
	       processed_items, failed_items, received_at, completed_at
	FROM deliveries
	ORDER BY received_at DESC, rowid DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("Error trying to get deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, rows.Err()
}

func (r *DeliveryRepository) GetDelivery(id string) (Delivery, error) {
	query := `
	SELECT id, user_id, memory_id, memory_title, status, total_items,
	       processed_items, failed_items, received_at, completed_at
	FROM deliveries WHERE id = ?
	`

	d, err := scanDelivery(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Delivery{}, ErrDeliveryNotFound
	}
	if err != nil {
		return Delivery{}, fmt.Errorf("Error trying to get delivery: %w", err)
	}

	return d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (Delivery, error) {
	var d Delivery
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.MemoryID,
		&d.MemoryTitle,
		&d.Status,
		&d.TotalItems,
		&d.ProcessedItems,
		&d.FailedItems,
		&d.ReceivedAt,
		&d.CompletedAt,
	)
	return d, err
}
