package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// DefaultTimeout bounds every outgoing request
const DefaultTimeout = 10 * time.Second

// UserAgent identifies the service to webhook receivers
const UserAgent = "onboarding-api/1.0"

// Client sends outgoing requests; tests swap in their own
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps http.Client, stamping every request with the
// service user agent and the trace context of the request's ctx
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a client with the default timeout
func NewStandardClient() Client {
	return NewClientWithTimeout(DefaultTimeout)
}

// NewClientWithTimeout creates a client with a custom timeout
func NewClientWithTimeout(timeout time.Duration) Client {
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do executes req. The caller's request is not modified.
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", UserAgent)
	}
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(out.Header))
	return c.client.Do(out)
}
