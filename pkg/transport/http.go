// Package transport executes finalized request descriptors over HTTP.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/blackcoderx/ferrapi/pkg/logging"
	"github.com/blackcoderx/ferrapi/pkg/storage"
)

// DefaultTimeout applies when a descriptor carries no timeout.
const DefaultTimeout = 30 * time.Second

// HTTPClient sends request descriptors with net/http.
type HTTPClient struct {
	client         *http.Client
	defaultTimeout time.Duration
}

// NewHTTPClient creates a client. A non-positive defaultTimeout falls back to DefaultTimeout.
func NewHTTPClient(defaultTimeout time.Duration) *HTTPClient {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &HTTPClient{
		client:         &http.Client{},
		defaultTimeout: defaultTimeout,
	}
}

// Response represents an HTTP response
type Response struct {
	StatusCode int               `json:"status_code"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
	Duration   time.Duration     `json:"duration"`
}

// Do performs the request described by d. It does not retry.
func (c *HTTPClient) Do(ctx context.Context, d *storage.RequestDescriptor) (*Response, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startTime := time.Now()

	var bodyReader io.Reader
	if payload := d.Body.Bytes(); payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(string(d.Method)), d.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if d.Body.Kind() == storage.BodyJSON {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, value := range d.Headers {
		httpReq.Header.Set(key, value)
	}

	logging.Debug("Transport", "%s %s (timeout %s)", httpReq.Method, d.URL, timeout)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	headers := make(map[string]string)
	for key, values := range httpResp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headers,
		Body:       bodyBytes,
		Duration:   time.Since(startTime),
	}, nil
}

// FormatResponse formats the response as plain text, pretty-printing JSON bodies.
func (r *Response) FormatResponse() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Status: %s (%dms)\n\n", r.Status, r.Duration.Milliseconds()))

	keys := make([]string, 0, len(r.Headers))
	for key := range r.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sb.WriteString("Headers:\n")
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", key, r.Headers[key]))
	}
	sb.WriteString("\n")

	sb.WriteString("Body:\n")
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, r.Body, "", "  "); err == nil {
		sb.WriteString(prettyJSON.String())
	} else {
		sb.Write(r.Body)
	}

	return sb.String()
}
