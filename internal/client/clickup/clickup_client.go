package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TWRT/memory-relay/internal/client"
	"github.com/TWRT/memory-relay/internal/models"
)

type ClickUpClient struct {
	baseUrl    string
	token      string
	httpClient *http.Client
}

func NewClickUpClient(token string) *ClickUpClient {
	return &ClickUpClient{
		baseUrl:    "https://api.clickup.com/api/v2",
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateRecord creates a task in the list identified by parent. Select slots
// become tags, since ClickUp lists have no free-form select properties.
func (c *ClickUpClient) CreateRecord(ctx context.Context, parent models.Parent, props models.RecordProperties) (*models.RecordRef, error) {
	reqBody, err := toCreateTaskRequest(props)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("Error trying to parse body to Json: %w", err)
	}

	url := c.baseUrl + "/list/" + parent.ContainerID + "/task"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("build request (clickup): %w", err)
	}

	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create task (clickup): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read error body (clickup): %w", err)
		}

		var clickupErr ClickUpErrors
		if err := json.Unmarshal(errorBody, &clickupErr); err != nil || clickupErr.Err == "" {
			return nil, &client.StoreError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, &client.StoreError{Status: resp.StatusCode, Code: clickupErr.Code, Message: clickupErr.Err}
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (clickup): %w", err)
	}

	var createdTask ClickUpTask
	if err := json.Unmarshal(responseBody, &createdTask); err != nil {
		return nil, fmt.Errorf("Error trying to parse resp: %w", err)
	}

	return &models.RecordRef{
		ID:  createdTask.Id,
		URL: createdTask.Url,
	}, nil
}

func toCreateTaskRequest(props models.RecordProperties) (CreateTaskRequest, error) {
	reqBody := CreateTaskRequest{
		Name: props.Title.Content,
	}

	if props.Status != nil {
		reqBody.Status = strings.ToLower(props.Status.Option)
	}
	for _, slot := range []*models.SelectSlot{props.When, props.Project} {
		if slot != nil && slot.Option != "" {
			reqBody.Tags = append(reqBody.Tags, slot.Option)
		}
	}
	if props.Note != nil {
		reqBody.Description = props.Note.Content
	}
	if props.Date != nil {
		start, err := models.ParseTimestamp(props.Date.Start)
		if err != nil {
			return CreateTaskRequest{}, fmt.Errorf("parse start date (clickup): %w", err)
		}
		reqBody.StartDate = start.UnixMilli()
		reqBody.StartDateTime = true
	}

	return reqBody, nil
}
