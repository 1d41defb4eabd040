package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"policyminer/types"
)

// APIClient is a thin HTTP client for the PolicyMiner API
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client: &http.Client{
			// Pipeline runs include OCR and completion calls; allow plenty of time
			Timeout: 5 * time.Minute,
		},
	}
}

// ExtractEmails triggers one pipeline run and returns the output collection
func (c *APIClient) ExtractEmails() ([]types.ExtractionRecord, error) {
	resp, err := c.client.Get(c.baseURL + "/api/v1/emails")
	if err != nil {
		return nil, fmt.Errorf("failed to run pipeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var records []types.ExtractionRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return records, nil
}

// Health checks the API health endpoint
func (c *APIClient) Health() error {
	resp, err := c.client.Get(c.baseURL + "/api/health")
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return nil
}
