package main

import (
	"fmt"
	"io"
	"os"

	"github.com/TWRT/memory-relay/internal/config"
	"github.com/TWRT/memory-relay/internal/models"
	"github.com/TWRT/memory-relay/internal/service"
	"github.com/urfave/cli/v2"
)

const sampleMemory = `{
  "id": 123,
  "created_at": "2024-07-22T23:59:45.910559+00:00",
  "structured": {
    "title": "Team Meeting Discussion",
    "overview": "Discussed project timeline and action items",
    "category": "work",
    "action_items": [
      {"description": "Review the quarterly budget proposal by Friday", "completed": false},
      {"description": "Schedule follow-up meeting with design team", "completed": false},
      {"description": "Update project documentation", "completed": false}
    ],
    "events": []
  },
  "discarded": false
}`

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check the environment and preview the records a memory would create.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "payload", Usage: "Memory JSON file to preview instead of the built-in sample."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			payload := []byte(sampleMemory)
			if path := c.String("payload"); path != "" {
				payload, err = os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read payload: %w", err)
				}
			}

			event, err := models.ParseEvent(payload)
			if err != nil {
				return fmt.Errorf("failed to parse payload: %w", err)
			}

			w := c.App.Writer
			printEnvironment(w, cfg)
			printMapping(w, cfg.Mapping)
			printPreview(w, cfg.Mapping, event)
			return nil
		},
	}
}

func printEnvironment(w io.Writer, cfg config.Config) {
	fmt.Fprintf(w, "Environment (%s record store):\n", cfg.Backend)
	type envVar struct {
		name string
		set  bool
	}
	required := []envVar{
		{"NOTION_API_KEY", cfg.NotionToken != ""},
		{"NOTION_TASKS_DATABASE_ID", cfg.DatabaseID != ""},
	}
	if cfg.Backend == config.BackendClickUp {
		required = []envVar{
			{"CLICKUP_TOKEN", cfg.ClickUpToken != ""},
			{"CLICKUP_LIST_ID", cfg.ClickUpListID != ""},
		}
	}
	for _, v := range required {
		if v.set {
			fmt.Fprintf(w, "  %s: set\n", v.name)
		} else {
			fmt.Fprintf(w, "  %s: not set (required for serve)\n", v.name)
		}
	}
	if cfg.NotifierEnabled() {
		fmt.Fprintln(w, "  Omi notifications: enabled")
	} else {
		fmt.Fprintln(w, "  Omi notifications: disabled (set OMI_APP_ID and OMI_API_KEY)")
	}
	if cfg.DBPath == "" {
		fmt.Fprintln(w, "  Delivery log: disabled")
	} else {
		fmt.Fprintf(w, "  Delivery log: %s\n", cfg.DBPath)
	}
}

func printMapping(w io.Writer, m config.FieldMapping) {
	fmt.Fprintf(w, "\nProperty mapping (%s mode):\n", m.Mode)
	for _, slot := range []struct{ label, property string }{
		{"Title", m.TitleField},
		{"Status", m.StatusField},
		{"Source", m.SourceField},
		{"Date", m.DateField},
		{"When", m.WhenField},
	} {
		if slot.property == "" {
			fmt.Fprintf(w, "  %s: (unbound)\n", slot.label)
			continue
		}
		fmt.Fprintf(w, "  %s: %q\n", slot.label, slot.property)
	}
}

func printPreview(w io.Writer, m config.FieldMapping, event models.Event) {
	items := service.ExtractPendingItems(event)
	title := event.Title
	if title == "" {
		title = m.UntitledFallback
	}
	fmt.Fprintf(w, "\nMemory %q: %d action items, %d pending\n", title, len(event.ActionItems), len(items))

	for i, item := range items {
		props, err := service.BuildRecordProperties(m, item, event)
		if err != nil {
			fmt.Fprintf(w, "  %d. %q: %v\n", i+1, item.Description, err)
			continue
		}
		fmt.Fprintf(w, "  %d. %s = %q\n", i+1, props.Title.Property, props.Title.Content)
		for _, s := range []*models.SelectSlot{props.Status, props.When, props.Project} {
			if s != nil {
				fmt.Fprintf(w, "     %s = %q (select)\n", s.Property, s.Option)
			}
		}
		if props.Note != nil {
			fmt.Fprintf(w, "     %s = %q (text)\n", props.Note.Property, props.Note.Content)
		}
		if props.Date != nil {
			if _, err := models.ParseTimestamp(props.Date.Start); err != nil {
				fmt.Fprintf(w, "     %s skipped: %v\n", props.Date.Property, err)
			} else {
				fmt.Fprintf(w, "     %s = %s (date)\n", props.Date.Property, props.Date.Start)
			}
		}
	}
}
