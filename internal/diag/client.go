package diag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"makdo/pkg/logging"
)

// TransportType defines the transport used to reach the diagnostic service.
type TransportType string

const (
	TransportSSE            TransportType = "sse"
	TransportStreamableHTTP TransportType = "streamable-http"
)

// callTimeout bounds a single diagnostic tool call so a hung diagnostic
// service cannot stall a health-check cycle.
const callTimeout = 30 * time.Second

// Client is an MCP client for the cluster-diagnostic aggregator. Every
// call carries the session token inside the natural-language message
// parameter; Client owns formatting that message so the parameter syntax is
// produced in exactly one place.
type Client struct {
	endpoint  string
	transport TransportType
	client    client.MCPClient
	timeout   time.Duration
}

// NewClient creates a diagnostic client for the given endpoint.
func NewClient(endpoint string, transport TransportType) *Client {
	return &Client{
		endpoint:  endpoint,
		transport: transport,
		timeout:   callTimeout,
	}
}

// Connect establishes the MCP session with the diagnostic aggregator.
func (c *Client) Connect(ctx context.Context) error {
	mcpClient, err := c.createAndConnectClient(ctx)
	if err != nil {
		return err
	}
	c.client = mcpClient

	if err := c.initialize(ctx); err != nil {
		c.client.Close()
		c.client = nil
		return fmt.Errorf("initialization failed: %w", err)
	}

	logging.Info("DiagClient", "Connected to diagnostic aggregator at %s (%s)", c.endpoint, c.transport)
	return nil
}

// Close shuts down the MCP session.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func (c *Client) createAndConnectClient(ctx context.Context) (client.MCPClient, error) {
	switch c.transport {
	case TransportSSE:
		sseClient, err := client.NewSSEMCPClient(c.endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSE client: %w", err)
		}
		if err := sseClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start SSE client: %w", err)
		}
		return sseClient, nil

	case TransportStreamableHTTP:
		httpClient, err := client.NewStreamableHttpClient(c.endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create streamable-http client: %w", err)
		}
		if err := httpClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start streamable-http client: %w", err)
		}
		return httpClient, nil

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", c.transport)
	}
}

// initialize performs the MCP protocol handshake
func (c *Client) initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: "2024-11-05",
			ClientInfo: mcp.Implementation{
				Name:    "makdo",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.client.Initialize(timeoutCtx, req)
	return err
}

// Call invokes a diagnostic tool with the given natural-language message and
// returns the text content of the result.
func (c *Client) Call(ctx context.Context, toolName, message string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client not connected")
	}

	req := mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name:      toolName,
			Arguments: map[string]interface{}{"message": message},
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.CallTool(timeoutCtx, req)
	if err != nil {
		return "", fmt.Errorf("tool call failed: %w", err)
	}

	var output []string
	for _, content := range result.Content {
		if textContent, ok := mcp.AsTextContent(content); ok {
			output = append(output, textContent.Text)
		}
	}
	text := strings.Join(output, "\n")

	if result.IsError {
		return "", fmt.Errorf("tool error: %s", text)
	}
	return text, nil
}
