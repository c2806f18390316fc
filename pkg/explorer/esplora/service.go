package esplora

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hivewallet/hive-core/pkg/circuitbreaker"
	"github.com/hivewallet/hive-core/pkg/explorer"
	"github.com/hivewallet/hive-core/pkg/httputil"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	// DefaultRequestsPerSecond is the rate limit used when none is given.
	DefaultRequestsPerSecond = 10
)

type esplora struct {
	apiURL  string
	client  *httputil.Client
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

// NewService returns a new esplora service as an explorer.Service interface.
// Every request is rate limited to requestsPerSecond and bounded by
// requestTimeout.
func NewService(
	apiURL string, requestTimeout time.Duration, requestsPerSecond int,
) (explorer.Service, error) {
	if len(apiURL) <= 0 {
		return nil, fmt.Errorf("missing explorer url")
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}

	service := &esplora{
		apiURL:  strings.TrimSuffix(apiURL, "/"),
		client:  httputil.NewClient(requestTimeout),
		limiter: ratelimit.New(requestsPerSecond),
		cb:      circuitbreaker.NewCircuitBreaker("esplora"),
	}

	if err := service.healthCheck(); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	return service, nil
}

func (e *esplora) healthCheck() error {
	_, err := e.GetBlockHeight(context.Background())
	return err
}

type response struct {
	status int
	body   string
}

// request performs a rate limited call through the circuit breaker. Only
// transport errors and server errors count as failures for the breaker.
func (e *esplora) request(
	ctx context.Context, method, url, body string, header map[string]string,
) (string, error) {
	e.limiter.Take()

	res, err := e.cb.Execute(func() (interface{}, error) {
		status, resp, err := e.client.NewHTTPRequest(ctx, method, url, body, header)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusInternalServerError {
			return nil, fmt.Errorf("explorer error %d: %s", status, resp)
		}
		return response{status, resp}, nil
	})
	if err != nil {
		return "", err
	}

	r := res.(response)
	switch {
	case r.status == http.StatusNotFound:
		return "", explorer.ErrNotFound
	case r.status != http.StatusOK:
		return "", fmt.Errorf("explorer error %d: %s", r.status, r.body)
	}
	return r.body, nil
}

func (e *esplora) get(ctx context.Context, path string) (string, error) {
	return e.request(ctx, http.MethodGet, e.apiURL+path, "", nil)
}
