package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultCallbackTimeout bounds a single callback request.
const DefaultCallbackTimeout = 10 * time.Second

// ErrCallbackDelivery is returned when a status callback could not be delivered.
var ErrCallbackDelivery = errors.New("callback delivery failed")

// Status is the terminal state of a job reported to the producer.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Callback is the status report sent after each job. Absent optional fields
// are sent as null.
type Callback struct {
	DocumentID       json.RawMessage `json:"documentId"`
	Status           Status          `json:"status"`
	PythonDocumentID *string         `json:"pythonDocumentId"`
	ErrorMessage     *string         `json:"errorMessage"`
}

// HTTPNotifier posts callbacks as JSON to a fixed URL.
type HTTPNotifier struct {
	url    string
	client *http.Client
}

// NewHTTPNotifier creates a notifier for url. timeout <= 0 uses DefaultCallbackTimeout.
func NewHTTPNotifier(url string, timeout time.Duration) *HTTPNotifier {
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}
	return &HTTPNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify posts cb. Any transport error or non-2xx response wraps ErrCallbackDelivery.
func (n *HTTPNotifier) Notify(ctx context.Context, cb Callback) error {
	if len(cb.DocumentID) == 0 {
		cb.DocumentID = json.RawMessage("null")
	}
	body, err := json.Marshal(cb)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCallbackDelivery, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: bad status %d: %s", ErrCallbackDelivery, resp.StatusCode, string(raw))
	}
	return nil
}
