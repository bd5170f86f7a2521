package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
)

// HTTPForwarder posts each payload as JSON to a collector URL.
type HTTPForwarder struct {
	url    string
	client *http.Client
}

var _ contract.Forwarder = &HTTPForwarder{} // Compile-time check

// NewHTTPForwarder returns a forwarder posting to url.
func NewHTTPForwarder(url string, timeout time.Duration) *HTTPForwarder {
	return &HTTPForwarder{url: url, client: &http.Client{Timeout: timeout}}
}

// Forward posts the payload. Any non-2xx response is an error.
func (f *HTTPForwarder) Forward(ctx context.Context, payload schema.DataPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to forward to %s: %w", f.url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector %s returned %s", f.url, resp.Status)
	}
	return nil
}

// Close releases idle connections.
func (f *HTTPForwarder) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
