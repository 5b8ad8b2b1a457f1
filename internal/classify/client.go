package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the text-classification backend over HTTP. The backend is
// a black box: given a string it returns a probability distribution over a
// fixed label set and the top label.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type request struct {
	Text string `json:"text"`
	Task Task   `json:"task"`
	Lang string `json:"lang"`
}

type response struct {
	Probas map[string]float64 `json:"probas"`
	Output string             `json:"output"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Predict classifies one text under one task.
func (c *Client) Predict(ctx context.Context, text string, task Task, lang string) (Prediction, error) {
	body, err := json.Marshal(request{Text: text, Task: task, Lang: lang})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predict", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Prediction{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return Prediction{}, fmt.Errorf("api error %d: %s — %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return Prediction{}, fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return Prediction{}, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(apiResp.Probas) == 0 {
		return Prediction{}, fmt.Errorf("empty probability distribution")
	}

	return Prediction{Task: task, Probas: apiResp.Probas, MaxLabel: apiResp.Output}, nil
}
