package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/wazaphq/wazap/internal/platform/timeouts"
)

// LogSink writes events to the standard logger. It is the development sink.
type LogSink struct{}

func (LogSink) Emit(event Event) {
	log.Printf("analytics event type=%s shop=%s product=%q attrs=%v",
		event.Type, event.Shop, event.Product, event.Attrs)
}

// HTTPSink posts events to an ingest endpoint. Deliveries run in the
// caller's goroutine with a short timeout; failures are logged and dropped.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSink builds a sink posting to endpoint. A nil client uses a
// default with the analytics delivery timeout.
func NewHTTPSink(endpoint string, client *http.Client) *HTTPSink {
	if client == nil {
		client = &http.Client{Timeout: timeouts.AnalyticsPost}
	}
	return &HTTPSink{endpoint: endpoint, client: client}
}

func (s *HTTPSink) Emit(event Event) {
	if s == nil || s.endpoint == "" {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("analytics: encode event %s: %v", event.Type, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.AnalyticsPost)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("analytics: build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("analytics: deliver event %s: %v", event.Type, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("analytics: deliver event %s: status %d", event.Type, resp.StatusCode)
	}
}
