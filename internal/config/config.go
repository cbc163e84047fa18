package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	ErrInvalidSourceMode = errors.New("invalid source mode")
	ErrInvalidBackend    = errors.New("invalid record store")
	ErrMissingTitleField = errors.New("title property must be set")
)

type Backend string

const (
	BackendNotion  Backend = "notion"
	BackendClickUp Backend = "clickup"
)

type SourceMode string

const (
	// SourceModeSelect writes NOTION_DEFAULT_PROJECT into a select property.
	SourceModeSelect SourceMode = "select"
	// SourceModeNote writes a "From <label>: <memory title>" rich-text note.
	SourceModeNote SourceMode = "note"
)

// FieldMapping binds record slots to database property names. An empty
// property name leaves the slot unpopulated.
type FieldMapping struct {
	Mode             SourceMode
	TitleField       string
	StatusField      string
	SourceField      string
	DateField        string
	WhenField        string
	DefaultStatus    string
	DefaultWhen      string
	DefaultProject   string
	SourceLabel      string
	UntitledFallback string
}

type Config struct {
	Backend       Backend
	NotionToken   string
	DatabaseID    string
	ClickUpToken  string
	ClickUpListID string
	OmiAppID      string
	OmiAPIKey     string
	OmiBaseURL    string
	DBPath        string
	Port          string
	LogLevel      string
	Mapping       FieldMapping
}

func (c Config) NotifierEnabled() bool {
	return c.OmiAppID != "" && c.OmiAPIKey != ""
}

func (c Config) RecordStoreEnabled() bool {
	if c.Backend == BackendClickUp {
		return c.ClickUpToken != "" && c.ClickUpListID != ""
	}
	return c.NotionToken != "" && c.DatabaseID != ""
}

// ContainerID is the database or list new records are created in.
func (c Config) ContainerID() string {
	if c.Backend == BackendClickUp {
		return c.ClickUpListID
	}
	return c.DatabaseID
}

// LoadDotEnv loads .env into the process environment. A missing file is not
// an error.
func LoadDotEnv() error {
	return loadDotEnvFile(".env")
}

func loadDotEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	mapping, err := LoadMapping()
	if err != nil {
		return Config{}, err
	}

	backend := Backend(strings.ToLower(strings.TrimSpace(envOr("RECORD_STORE", string(BackendNotion)))))
	if backend != BackendNotion && backend != BackendClickUp {
		return Config{}, fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidBackend, backend, BackendNotion, BackendClickUp)
	}

	return Config{
		Backend:       backend,
		NotionToken:   os.Getenv("NOTION_API_KEY"),
		DatabaseID:    os.Getenv("NOTION_TASKS_DATABASE_ID"),
		ClickUpToken:  os.Getenv("CLICKUP_TOKEN"),
		ClickUpListID: os.Getenv("CLICKUP_LIST_ID"),
		OmiAppID:      os.Getenv("OMI_APP_ID"),
		OmiAPIKey:     os.Getenv("OMI_API_KEY"),
		OmiBaseURL:    envOr("OMI_BASE_URL", "https://api.omi.me"),
		DBPath:        lookupOr("RELAY_DB_PATH", "./relay.db"),
		Port:          envOr("PORT", "3000"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		Mapping:       mapping,
	}, nil
}

// LoadMapping resolves the property mapping. Defaults depend on the source
// mode; a variable that is set but empty unbinds its slot. The title slot
// cannot be unbound.
func LoadMapping() (FieldMapping, error) {
	mode := SourceMode(strings.ToLower(strings.TrimSpace(envOr("NOTION_SOURCE_MODE", string(SourceModeSelect)))))
	defaults, err := DefaultMapping(mode)
	if err != nil {
		return FieldMapping{}, err
	}

	titleField := lookupOr("NOTION_TITLE_PROPERTY", defaults.TitleField)
	if titleField == "" {
		return FieldMapping{}, fmt.Errorf("%w: NOTION_TITLE_PROPERTY is empty", ErrMissingTitleField)
	}

	return FieldMapping{
		Mode:             mode,
		TitleField:       titleField,
		StatusField:      lookupOr("NOTION_STATUS_PROPERTY", defaults.StatusField),
		SourceField:      lookupOr("NOTION_SOURCE_PROPERTY", defaults.SourceField),
		DateField:        lookupOr("NOTION_DATE_PROPERTY", defaults.DateField),
		WhenField:        lookupOr("NOTION_WHEN_PROPERTY", defaults.WhenField),
		DefaultStatus:    envOr("NOTION_DEFAULT_STATUS", defaults.DefaultStatus),
		DefaultWhen:      envOr("NOTION_DEFAULT_WHEN", defaults.DefaultWhen),
		DefaultProject:   os.Getenv("NOTION_DEFAULT_PROJECT"),
		SourceLabel:      envOr("NOTION_SOURCE_LABEL", defaults.SourceLabel),
		UntitledFallback: defaults.UntitledFallback,
	}, nil
}

// DefaultMapping returns the stock mapping for a source mode.
func DefaultMapping(mode SourceMode) (FieldMapping, error) {
	switch mode {
	case SourceModeSelect:
		return FieldMapping{
			Mode:             SourceModeSelect,
			TitleField:       "Task Name",
			StatusField:      "Status",
			SourceField:      "Project",
			WhenField:        "When",
			DefaultStatus:    "To-do",
			DefaultWhen:      "Today",
			SourceLabel:      "Omi AI",
			UntitledFallback: "Untitled conversation",
		}, nil
	case SourceModeNote:
		return FieldMapping{
			Mode:             SourceModeNote,
			TitleField:       "Name",
			StatusField:      "Status",
			SourceField:      "Source",
			DateField:        "Created Date",
			DefaultStatus:    "Not started",
			DefaultWhen:      "Today",
			SourceLabel:      "Omi AI",
			UntitledFallback: "Untitled conversation",
		}, nil
	default:
		return FieldMapping{}, fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidSourceMode, mode, SourceModeSelect, SourceModeNote)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func lookupOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}
