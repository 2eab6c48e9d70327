package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makdo/internal/api"
)

func TestNormalizeChannel(t *testing.T) {
	assert.Equal(t, "#makdo-devops", NormalizeChannel("makdo-devops"))
	assert.Equal(t, "#makdo-devops", NormalizeChannel("#makdo-devops"))
}

func TestPostMessage_Success(t *testing.T) {
	var got postMessageRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(postMessageResponse{OK: true})
	}))
	defer server.Close()

	client := NewClientWithURL("xoxb-test", server.URL)
	err := client.PostMessage(context.Background(), "makdo-devops", "all pods healthy")

	require.NoError(t, err)
	assert.Equal(t, "Bearer xoxb-test", auth)
	assert.Equal(t, "#makdo-devops", got.Channel, "channel must be normalized before posting")
	assert.Equal(t, "all pods healthy", got.Text)
}

func TestPostMessage_APIFailureCarriesErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(postMessageResponse{OK: false, Error: "channel_not_found"})
	}))
	defer server.Close()

	client := NewClientWithURL("xoxb-test", server.URL)
	err := client.PostMessage(context.Background(), "ghost-channel", "hello")

	require.Error(t, err)
	assert.True(t, api.IsTransient(err), "chat failures are transient, never fatal")
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestPostMessage_NoToken(t *testing.T) {
	client := NewClient("")
	err := client.PostMessage(context.Background(), "makdo-devops", "hello")

	require.Error(t, err)
	assert.True(t, api.IsTransient(err))
}

func TestPostMessage_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down immediately

	client := NewClientWithURL("xoxb-test", server.URL)
	err := client.PostMessage(context.Background(), "makdo-devops", "hello")

	require.Error(t, err)
	assert.True(t, api.IsTransient(err))
}
