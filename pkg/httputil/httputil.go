package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// DefaultTimeout is used by clients created with a non positive timeout.
const DefaultTimeout = 30 * time.Second

// Client is a minimal http client returning status code and body of every
// response as a string.
type Client struct {
	client *http.Client
}

// NewClient returns a client whose requests are bounded by the given timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{&http.Client{Timeout: timeout}}
}

// NewClientWithCookies returns a client that keeps the cookies set by the
// server across requests, for services tracking a session via cookies.
func NewClientWithCookies(timeout time.Duration) *Client {
	c := NewClient(timeout)
	// cookiejar.New never fails without options.
	c.client.Jar, _ = cookiejar.New(nil)
	return c
}

// NewHTTPRequest function builds http call
// @param method <string>: http method
// @param url <string>: URL http to call
// @return <int>, <string>, error
func (c *Client) NewHTTPRequest(
	ctx context.Context, method, url, bodyString string,
	header map[string]string,
) (int, string, error) {
	switch method {
	case http.MethodGet:
		return c.do(ctx, method, url, nil, header)
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		var body io.Reader
		if len(bodyString) > 0 {
			body = strings.NewReader(bodyString)
		}
		return c.do(ctx, method, url, body, header)
	default:
		return 0, "", fmt.Errorf("verb not supported %s", method)
	}
}

func (c *Client) do(
	ctx context.Context, method, url string, body io.Reader,
	header map[string]string,
) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, "", err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return 0, "", err
	}

	return rs.StatusCode, string(bodyBytes), nil
}
