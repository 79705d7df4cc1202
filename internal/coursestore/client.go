// Package coursestore is the REST client for the remote course store.
package coursestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/pkg/config"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/middleware/requestid"
)

const maxBodyBytes = 8 << 20

// Config addresses the course store.
type Config struct {
	BaseURL string

	// AssignmentsURL serves the assignment and progress endpoints; defaults to BaseURL.
	AssignmentsURL string
	Timeout        time.Duration
}

// ConfigFrom maps the portal configuration onto a client Config.
func ConfigFrom(cfg config.PortalConfig) Config {
	return Config{BaseURL: cfg.StoreURL, AssignmentsURL: cfg.AssignmentsURL, Timeout: cfg.RequestTimeout}
}

// Client issues requests against the course store. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
	token      string
}

// New builds a client. A nil httpClient uses a dedicated transport-level client.
func New(cfg Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("course store base url required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse course store url: %w", err)
	}
	cfg.AssignmentsURL = strings.TrimRight(strings.TrimSpace(cfg.AssignmentsURL), "/")
	if cfg.AssignmentsURL == "" {
		cfg.AssignmentsURL = cfg.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, httpClient: httpClient, logger: logger.With(zap.String("client", "coursestore"))}, nil
}

// WithToken returns a copy of c that authenticates as the bearer of token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

type request struct {
	method      string
	base        string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func (c *Client) jsonRequest(method, path string, payload interface{}) (request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "encode request body")
	}
	return request{method: method, base: c.cfg.BaseURL, path: path, body: body, contentType: "application/json"}, nil
}

func textRequest(base, method, path string, id int64) request {
	return request{method: method, base: base, path: path, body: []byte(strconv.FormatInt(id, 10)), contentType: "text/plain"}
}

// do sends req and decodes a 2xx body into out when both are present. It returns
// the raw body for callers that need to inspect its shape.
func (c *Client) do(ctx context.Context, req request, out interface{}) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	target := req.base + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "build request")
	}

	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = requestid.New()
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestid.HeaderKey, reqID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("course store request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(err)
	}

	c.logger.Debug("course store request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return raw, appErrors.Remote(resp.StatusCode, serverMessage(raw))
	}

	// Acknowledgements such as "Course updated" carry no entity to decode.
	if trimmed := bytes.TrimSpace(raw); out != nil && len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return raw, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "unexpected response from course store")
		}
	}
	return raw, nil
}

func transportError(err error) error {
	msg := appErrors.ErrTransport.Message
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "course store did not respond in time"
	}
	if errors.Is(err, context.Canceled) {
		msg = "request cancelled"
	}
	return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, msg)
}

// serverMessage extracts the message a store attaches to an error response.
func serverMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	if trimmed[0] == '"' {
		var s string
		if json.Unmarshal(trimmed, &s) == nil {
			return s
		}
	}
	if len(trimmed) <= 200 && !bytes.ContainsAny(trimmed, "<{[") {
		return string(trimmed)
	}
	return ""
}

// decodeList accepts an array, a single object or an empty body.
func decodeList[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return []T{}, nil
	}
	if trimmed[0] == '{' {
		var single T
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "unexpected response from course store")
		}
		return []T{single}, nil
	}
	var list []T
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "unexpected response from course store")
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}
