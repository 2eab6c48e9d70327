package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"makdo/internal/admin"
)

// adminClient talks to the out-of-band admin API on behalf of the session
// subcommands.
type adminClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newAdminClient(baseURL, apiKey string) *adminClient {
	return &adminClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *adminClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("admin API unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("admin API rejected the API key (set --api-key or MAKDO_API_KEY)")
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("malformed admin API response: %w", err)
		}
	}
	return nil
}

func (c *adminClient) createSession(ctx context.Context, req admin.CreateSessionRequest) (*admin.CreateSessionResponse, error) {
	var out admin.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *adminClient) listSessions(ctx context.Context, mine bool) (*admin.ListSessionsResponse, error) {
	path := "/sessions"
	if mine {
		path = "/sessions/mine"
	}
	var out admin.ListSessionsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *adminClient) deleteSession(ctx context.Context, token string) (*admin.DeleteSessionResponse, error) {
	var out admin.DeleteSessionResponse
	if err := c.do(ctx, http.MethodDelete, "/sessions/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
