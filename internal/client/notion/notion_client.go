package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/TWRT/memory-relay/internal/client"
	"github.com/TWRT/memory-relay/internal/models"
	"github.com/jomei/notionapi"
)

type NotionClient struct {
	api *notionapi.Client
}

func NewNotionClient(token string) *NotionClient {
	return NewNotionClientWithHTTP(token, &http.Client{Timeout: 10 * time.Second})
}

func NewNotionClientWithHTTP(token string, httpClient *http.Client) *NotionClient {
	return &NotionClient{
		api: notionapi.NewClient(notionapi.Token(token), notionapi.WithHTTPClient(httpClient)),
	}
}

// CreateRecord creates one page in the database identified by parent.
func (c *NotionClient) CreateRecord(ctx context.Context, parent models.Parent, props models.RecordProperties) (*models.RecordRef, error) {
	properties, err := toNotionProperties(props)
	if err != nil {
		return nil, err
	}

	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(parent.ContainerID),
		},
		Properties: properties,
	})
	if err != nil {
		var apiErr *notionapi.Error
		if errors.As(err, &apiErr) {
			return nil, &client.StoreError{
				Status:  apiErr.Status,
				Code:    string(apiErr.Code),
				Message: apiErr.Message,
			}
		}
		return nil, fmt.Errorf("create page (notion): %w", err)
	}

	return &models.RecordRef{
		ID:  page.ID.String(),
		URL: page.URL,
	}, nil
}

func toNotionProperties(props models.RecordProperties) (notionapi.Properties, error) {
	properties := notionapi.Properties{
		props.Title.Property: notionapi.TitleProperty{
			Title: richText(props.Title.Content),
		},
	}

	for _, slot := range []*models.SelectSlot{props.Status, props.When, props.Project} {
		if slot == nil {
			continue
		}
		properties[slot.Property] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: slot.Option},
		}
	}

	if props.Note != nil {
		properties[props.Note.Property] = notionapi.RichTextProperty{
			RichText: richText(props.Note.Content),
		}
	}

	if props.Date != nil {
		if _, err := models.ParseTimestamp(props.Date.Start); err != nil {
			return nil, fmt.Errorf("parse date (notion): %w", err)
		}
		properties[props.Date.Property] = dateProperty{
			Type: notionapi.PropertyTypeDate,
			Date: dateValue{Start: props.Date.Start},
		}
	}

	return properties, nil
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{{
		Text: &notionapi.Text{Content: content},
	}}
}

// dateProperty sends the start value as written. notionapi.DateProperty
// re-formats it through time.Time with second precision.
type dateProperty struct {
	Type notionapi.PropertyType `json:"type"`
	Date dateValue              `json:"date"`
}

type dateValue struct {
	Start string `json:"start"`
}

func (p dateProperty) GetID() string {
	return ""
}

func (p dateProperty) GetType() notionapi.PropertyType {
	return p.Type
}
