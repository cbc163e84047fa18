package models

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidPayload = errors.New("payload is not valid JSON")

// ActionItem is one candidate task found in a memory.
type ActionItem struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Event is the part of an Omi memory the relay cares about.
type Event struct {
	ID          string
	CreatedAt   string
	Title       string
	ActionItems []ActionItem
}

// ParseEvent decodes a memory webhook body. Only syntactically broken JSON is
// an error; any shape mismatch degrades to an event with no action items.
func ParseEvent(data []byte) (Event, error) {
	if !json.Valid(data) {
		return Event{}, ErrInvalidPayload
	}

	var memory map[string]json.RawMessage
	if err := json.Unmarshal(data, &memory); err != nil {
		return Event{}, nil
	}

	event := Event{
		ID:        rawString(memory["id"]),
		CreatedAt: rawString(memory["created_at"]),
	}

	var structured map[string]json.RawMessage
	if err := json.Unmarshal(memory["structured"], &structured); err != nil {
		return event, nil
	}
	event.Title = rawString(structured["title"])

	var rawItems []json.RawMessage
	if err := json.Unmarshal(structured["action_items"], &rawItems); err != nil {
		return event, nil
	}
	for _, raw := range rawItems {
		var item ActionItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		event.ActionItems = append(event.ActionItems, item)
	}

	return event, nil
}

// rawString returns strings verbatim and other scalars as their JSON text.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" || strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return ""
	}
	return text
}
