package service

import "github.com/TWRT/memory-relay/internal/models"

// ExtractPendingItems returns the action items that are not completed yet,
// in the order the memory lists them.
func ExtractPendingItems(event models.Event) []models.ActionItem {
	pending := make([]models.ActionItem, 0, len(event.ActionItems))
	for _, item := range event.ActionItems {
		if item.Completed {
			continue
		}
		pending = append(pending, item)
	}
	return pending
}
