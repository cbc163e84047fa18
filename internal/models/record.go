package models

import (
	"fmt"
	"time"
)

// TextSlot holds a title or rich-text property value.
type TextSlot struct {
	Property string
	Content  string
}

// SelectSlot holds a single-select property value.
type SelectSlot struct {
	Property string
	Option   string
}

// DateSlot holds a date property value. Start is passed through exactly as
// the source event supplied it.
type DateSlot struct {
	Property string
	Start    string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp reads an ISO 8601 date or date-time. Values without an
// offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", s)
}

// RecordProperties is the typed property set of one task record. Title is
// always present; a nil slot is not sent to the record store.
type RecordProperties struct {
	Title   TextSlot
	Status  *SelectSlot
	When    *SelectSlot
	Project *SelectSlot
	Note    *TextSlot
	Date    *DateSlot
}

// Parent identifies the container a record is created in.
type Parent struct {
	ContainerID string
}

// RecordRef identifies a created record.
type RecordRef struct {
	ID  string
	URL string
}
