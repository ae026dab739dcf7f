package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.0-flash"

	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 15 * time.Second

	// maxRetries counts retries after the first attempt. Only transient
	// failures (network errors, 5xx) are retried.
	maxRetries = 2
)

// GeminiConfig configures the Gemini generator.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Gemini calls the Gemini generateContent REST endpoint.
type Gemini struct {
	cfg    GeminiConfig
	client *http.Client
}

// NewGemini constructs a Gemini generator. APIKey must be set.
func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("feedback: gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Gemini{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// NewFromEnv builds a generator from TALLY_GEMINI_API_KEY and
// TALLY_GEMINI_MODEL. Without a key it returns Noop, so milestone creation
// keeps working and feedback simply stays empty.
func NewFromEnv() (Generator, error) {
	key := os.Getenv("TALLY_GEMINI_API_KEY")
	if key == "" {
		return Noop{}, nil
	}
	return NewGemini(GeminiConfig{
		APIKey: key,
		Model:  os.Getenv("TALLY_GEMINI_MODEL"),
	})
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate renders the prompt, calls the API, and returns the first
// candidate's text. Transient failures are retried with a short backoff.
func (g *Gemini) Generate(ctx context.Context, p Params) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: buildPrompt(p)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("feedback: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.cfg.BaseURL, g.cfg.Model, url.QueryEscape(g.cfg.APIKey))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		text, retryable, err := g.call(ctx, endpoint, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (g *Gemini) call(ctx context.Context, endpoint string, body []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("feedback: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("feedback: call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", true, fmt.Errorf("feedback: gemini returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", false, fmt.Errorf("feedback: gemini returned %d", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("feedback: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("feedback: gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	text = strings.TrimSpace(b.String())
	if text == "" {
		return "", false, fmt.Errorf("feedback: gemini returned empty text")
	}
	return text, false, nil
}
