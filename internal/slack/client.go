package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"makdo/internal/api"
	"makdo/pkg/logging"
)

// defaultAPIURL is the Slack Web API endpoint for posting messages.
const defaultAPIURL = "https://slack.com/api/chat.postMessage"

// postTimeout bounds one chat post so a hung Slack API cannot stall a
// health-check cycle.
const postTimeout = 10 * time.Second

// Client posts messages to Slack channels. Failures are returned as
// TransientErrors; callers treat them as warnings, never fatal.
type Client struct {
	botToken   string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a Slack client with the given bot token.
func NewClient(botToken string) *Client {
	return &Client{
		botToken:   botToken,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: postTimeout},
	}
}

// NewClientWithURL creates a client against a custom API endpoint. Used by
// tests with httptest servers.
func NewClientWithURL(botToken, apiURL string) *Client {
	c := NewClient(botToken)
	c.apiURL = apiURL
	return c
}

// NormalizeChannel ensures the channel name carries a leading '#'.
func NormalizeChannel(channel string) string {
	if strings.HasPrefix(channel, "#") {
		return channel
	}
	return "#" + channel
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage posts text to a channel. The channel name is normalized to a
// leading '#'. On API failure the Slack error code is carried in the
// returned error.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	if c.botToken == "" {
		return api.NewTransientError("reporting", fmt.Errorf("no bot token configured, Slack posting disabled"))
	}

	channel = NormalizeChannel(channel)

	body, err := json.Marshal(postMessageRequest{Channel: channel, Text: text})
	if err != nil {
		return api.NewTransientError("reporting", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return api.NewTransientError("reporting", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return api.NewTransientError("reporting", err)
	}
	defer resp.Body.Close()

	var result postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return api.NewTransientError("reporting", fmt.Errorf("malformed Slack response: %w", err))
	}

	if !result.OK {
		code := result.Error
		if code == "" {
			code = "unknown_error"
		}
		return api.NewTransientError("reporting", fmt.Errorf("failed to post to %s: %s", channel, code))
	}

	logging.Info("Slack", "Message posted to %s", channel)
	return nil
}
