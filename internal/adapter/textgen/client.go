package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
)

// Parameters mirror the generation knobs of a seq2seq inference endpoint.
type Parameters struct {
	MaxLength         int  `json:"max_length,omitempty"`
	NumBeams          int  `json:"num_beams,omitempty"`
	NoRepeatNgramSize int  `json:"no_repeat_ngram_size,omitempty"`
	EarlyStopping     bool `json:"early_stopping"`
}

type request struct {
	Model      string     `json:"model,omitempty"`
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

// Client calls a hosted text-generation endpoint (Hugging Face inference
// API compatible).
type Client struct {
	url        string
	apiKey     string
	model      string
	params     Parameters
	httpClient *http.Client
	logger     ports.LoggerPort
}

func NewClient(url, apiKey, model string, params Parameters, timeout time.Duration, logger ports.LoggerPort) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		params:     params,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "textgen.Generate"

	body, err := json.Marshal(request{
		Model:      c.model,
		Inputs:     prompt,
		Parameters: c.params,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Text generation failed", map[string]interface{}{
			"status": resp.StatusCode,
			"model":  c.model,
		})
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	// The endpoint answers either with a list or with a single object.
	var many []generation
	if err := json.Unmarshal(raw, &many); err == nil {
		if len(many) == 0 {
			return "", fmt.Errorf("%s: empty generation", op)
		}
		return many[0].GeneratedText, nil
	}
	var one generation
	if err := json.Unmarshal(raw, &one); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	return one.GeneratedText, nil
}
