package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TWRT/memory-relay/internal/config"
	"github.com/TWRT/memory-relay/internal/models"
)

var ErrMissingTitle = errors.New("action item has no description")

// BuildRecordProperties maps one action item to the record slots bound in
// mapping. Only the title slot is mandatory.
func BuildRecordProperties(mapping config.FieldMapping, item models.ActionItem, event models.Event) (models.RecordProperties, error) {
	if strings.TrimSpace(item.Description) == "" {
		return models.RecordProperties{}, ErrMissingTitle
	}
	if mapping.TitleField == "" {
		return models.RecordProperties{}, fmt.Errorf("%w: title property is not configured", ErrMissingTitle)
	}

	props := models.RecordProperties{
		Title: models.TextSlot{Property: mapping.TitleField, Content: item.Description},
	}

	if mapping.StatusField != "" {
		props.Status = &models.SelectSlot{Property: mapping.StatusField, Option: mapping.DefaultStatus}
	}

	if mapping.WhenField != "" {
		props.When = &models.SelectSlot{Property: mapping.WhenField, Option: mapping.DefaultWhen}
	}

	if mapping.SourceField != "" {
		switch mapping.Mode {
		case config.SourceModeNote:
			props.Note = &models.TextSlot{Property: mapping.SourceField, Content: sourceNote(mapping, event)}
		default:
			if mapping.DefaultProject != "" {
				props.Project = &models.SelectSlot{Property: mapping.SourceField, Option: mapping.DefaultProject}
			}
		}
	}

	// The memory carries no due date, so only the capture timestamp is used.
	if mapping.DateField != "" && event.CreatedAt != "" {
		props.Date = &models.DateSlot{Property: mapping.DateField, Start: event.CreatedAt}
	}

	return props, nil
}

func sourceNote(mapping config.FieldMapping, event models.Event) string {
	title := event.Title
	if title == "" {
		title = mapping.UntitledFallback
	}
	return fmt.Sprintf("From %s: %s", mapping.SourceLabel, title)
}
