package iris

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// Client sends replies back to the chat gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	var config Config
	if err := c.doRequest(ctx, http.MethodGet, "/config", nil, &config); err != nil {
		c.logger.Error("Failed to get gateway config", zap.Error(err))
		return nil, err
	}
	return &config, nil
}

func (c *Client) SendMessage(ctx context.Context, room, message string) error {
	req := ReplyRequest{
		Type: "text",
		Room: room,
		Data: message,
	}

	if err := c.doRequest(ctx, http.MethodPost, "/reply", req, nil); err != nil {
		c.logger.Error("Failed to send message",
			zap.Error(err),
			zap.String("room", room),
		)
		return err
	}
	return nil
}

// SendLines sends response lines as one newline-joined message. Empty input sends nothing.
func (c *Client) SendLines(ctx context.Context, room string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	return c.SendMessage(ctx, room, strings.Join(lines, "\n"))
}

func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.GetConfig(ctx)
	return err == nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, respBody any) error {
	url := c.baseURL + path
	errCtx := map[string]any{"url": url, "method": method}

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return errors.NewAPIError("failed to marshal request", 400, errCtx).WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return errors.NewAPIError("failed to create request", 500, errCtx).WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAPIError("request failed", 500, errCtx).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		errCtx["body"] = string(bodyBytes)
		return errors.NewAPIError(fmt.Sprintf("gateway error: %s", resp.Status), resp.StatusCode, errCtx)
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return errors.NewAPIError("failed to decode response", 500, errCtx).WithCause(err)
		}
	}
	return nil
}
