package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCheck(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	if err := app.Run(append([]string{"memory-relay", "check"}, args...)); err != nil {
		t.Fatalf("check: %v", err)
	}
	return buf.String()
}

func TestCheckPreviewsSampleMemory(t *testing.T) {
	t.Setenv("NOTION_SOURCE_MODE", "note")
	t.Setenv("RECORD_STORE", "")
	t.Setenv("NOTION_API_KEY", "")
	t.Setenv("NOTION_TASKS_DATABASE_ID", "db")

	out := runCheck(t)
	for _, want := range []string{
		"Environment (notion record store)",
		"NOTION_API_KEY: not set",
		"NOTION_TASKS_DATABASE_ID: set",
		"Property mapping (note mode)",
		"When: (unbound)",
		`Memory "Team Meeting Discussion": 3 action items, 3 pending`,
		`Name = "Review the quarterly budget proposal by Friday"`,
		`Source = "From Omi AI: Team Meeting Discussion" (text)`,
		"Created Date = 2024-07-22T23:59:45.910559+00:00 (date)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCheckPreviewsPayloadFile(t *testing.T) {
	t.Setenv("NOTION_SOURCE_MODE", "select")
	t.Setenv("RECORD_STORE", "")
	t.Setenv("NOTION_DEFAULT_PROJECT", "Inbox")

	path := filepath.Join(t.TempDir(), "memory.json")
	payload := `{"structured":{"action_items":[{"description":"Call mom"},{"description":"Old","completed":true}]}}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	out := runCheck(t, "--payload", path)
	if !strings.Contains(out, "1 pending") || !strings.Contains(out, `Project = "Inbox" (select)`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Old") {
		t.Fatalf("completed items must not be previewed:\n%s", out)
	}
}

func TestCheckRejectsInvalidMode(t *testing.T) {
	t.Setenv("NOTION_SOURCE_MODE", "bogus")
	app := newApp()
	app.Writer = &bytes.Buffer{}
	if err := app.Run([]string{"memory-relay", "check"}); err == nil {
		t.Fatalf("expected an error for an invalid source mode")
	}
}
