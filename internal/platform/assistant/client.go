// Package assistant is the HTTP client for the external symptom-classification
// service. All calls are best-effort: failures surface as errors the caller
// turns into a user-visible message, never a crash.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// ErrDisabled is returned when no assistant URL is configured.
var ErrDisabled = errors.New("assistant integration disabled")

const defaultTimeout = 10 * time.Second

// ChatReply is the assistant's answer to a free-text health question. The
// specialty field is set when the assistant recognized one in the exchange.
type ChatReply struct {
	Text      string `json:"text"`
	Specialty string `json:"specialty,omitempty"`
}

// DirectoryDoctor is an externally listed practitioner, used as a fallback
// when no registered doctor matches a specialty.
type DirectoryDoctor struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
}

// Client talks to the assistant service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// Enabled reports whether a service URL is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Chat sends a free-text message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("assistant chat call failed")
		return nil, fmt.Errorf("assistant unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("assistant chat returned non-200")
		return nil, fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	var reply ChatReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode chat reply: %w", err)
	}
	return &reply, nil
}

// Doctors fetches the external directory listing for a specialty.
func (c *Client) Doctors(ctx context.Context, specialty string) ([]DirectoryDoctor, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	u := fmt.Sprintf("%s/doctors?specialty=%s", c.baseURL, url.QueryEscape(specialty))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("specialty", specialty).Msg("assistant directory call failed")
		return nil, fmt.Errorf("assistant unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	var body struct {
		Doctors []DirectoryDoctor `json:"doctors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode directory reply: %w", err)
	}
	return body.Doctors, nil
}
