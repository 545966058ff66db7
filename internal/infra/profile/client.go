// Package profile talks to the external identity/profile service that owns
// per-user settings.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client fetches per-user settings over HTTP. The core only consumes
// max_question_repetitions; everything else the profile service returns is
// ignored.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type settingsResponse struct {
	MaxQuestionRepetitions int `json:"max_question_repetitions"`
}

func (c *Client) MaxRepetitions(ctx context.Context, userID uuid.UUID) (int, error) {
	url := fmt.Sprintf("%s/users/%s/settings", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch settings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch settings: unexpected status %d", resp.StatusCode)
	}

	var settings settingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return 0, fmt.Errorf("decode settings: %w", err)
	}
	return settings.MaxQuestionRepetitions, nil
}
