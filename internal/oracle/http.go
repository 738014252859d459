package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stoproom/internal/domain"
)

// Client talks to an external AI word service over JSON/HTTP. The service
// exposes two endpoints mirroring the two oracle roles:
//
//	POST /opponent-word  {letter, category, language}        -> {response}
//	POST /validate-word  {letter, category, word, language}  -> {isValid, errorReason}
type Client struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

// NewClient creates an HTTP oracle client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		headers: make(map[string]string),
	}
}

// SetHeader adds a header (e.g. an API key) to every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

type opponentWordRequest struct {
	Letter   string `json:"letter"`
	Category string `json:"category"`
	Language string `json:"language"`
}

type opponentWordResponse struct {
	Response string `json:"response"`
}

type validateWordRequest struct {
	Letter   string `json:"letter"`
	Category string `json:"category"`
	Word     string `json:"word"`
	Language string `json:"language"`
}

// Word implements OpponentGenerator. Answers that do not start with the
// round letter are discarded, matching the generator's own contract.
func (c *Client) Word(ctx context.Context, letter, category string, lang domain.Language) (string, error) {
	var out opponentWordResponse
	err := c.post(ctx, "/opponent-word", opponentWordRequest{
		Letter:   letter,
		Category: category,
		Language: string(lang),
	}, &out)
	if err != nil {
		return "", err
	}

	word := domain.NormalizeWord(out.Response)
	if word == "" || !hasPrefixFold(word, letter) {
		return "", nil
	}
	return word, nil
}

// Validate implements WordValidator
func (c *Client) Validate(ctx context.Context, letter, category, word string, lang domain.Language) (Verdict, error) {
	var out Verdict
	err := c.post(ctx, "/validate-word", validateWordRequest{
		Letter:   letter,
		Category: category,
		Word:     word,
		Language: string(lang),
	}, &out)
	if err != nil {
		return Verdict{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, endpoint string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, response: %s", ErrUnavailable, resp.StatusCode, string(responseBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
