package omi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type OmiClient struct {
	baseUrl    string
	appId      string
	apiKey     string
	httpClient *http.Client
}

func NewOmiClient(baseUrl, appId, apiKey string) *OmiClient {
	if baseUrl == "" {
		baseUrl = "https://api.omi.me"
	}
	return &OmiClient{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		appId:      appId,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends a direct notification to one Omi user.
func (c *OmiClient) Notify(ctx context.Context, message, userId string) error {
	query := url.Values{}
	query.Set("uid", userId)
	query.Set("message", message)
	endpoint := c.baseUrl + "/v2/integrations/" + url.PathEscape(c.appId) + "/notification?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request (omi): %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification (omi): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
		if err != nil {
			return fmt.Errorf("read error body (omi): %w", err)
		}

		var omiErr OmiError
		if err := json.Unmarshal(errorBody, &omiErr); err == nil && omiErr.Detail != "" {
			return fmt.Errorf("Omi error: status %d: %s", resp.StatusCode, omiErr.Detail)
		}
		return fmt.Errorf("API error status (omi): %d", resp.StatusCode)
	}

	return nil
}
