// Package scrape is the HTTP transport the provider talks through. It is
// deliberately dumb: no implicit cookie jar, no hidden retries. The cookie
// header is handed in explicitly on every call so that sessions of
// different accounts can never cross-contaminate.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const maxBodyBytes = 8 << 20

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// SetCookies collects every Set-Cookie header seen along the redirect
	// chain, oldest first. Login endpoints hand out session cookies on an
	// intermediate 302, which the final response no longer carries.
	SetCookies []string
}

// Client is the transport contract. Implementations are stateless per
// call aside from the cookie header they are handed.
type Client interface {
	Get(ctx context.Context, url string, cookieHeader string) (*Response, error)
	PostForm(ctx context.Context, url string, cookieHeader string, form url.Values) (*Response, error)
}

// HTTPClient is the net/http implementation, with an optional outbound
// proxy fixed at construction.
type HTTPClient struct {
	transport *http.Transport
	timeout   time.Duration
}

func NewHTTPClient(proxyURL string) (*HTTPClient, error) {
	t := &http.Transport{}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		t.Proxy = http.ProxyURL(u)
	}
	return &HTTPClient{transport: t, timeout: 30 * time.Second}, nil
}

func (c *HTTPClient) Get(ctx context.Context, rawURL string, cookieHeader string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, cookieHeader)
}

func (c *HTTPClient) PostForm(ctx context.Context, rawURL string, cookieHeader string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, cookieHeader)
}

func (c *HTTPClient) do(req *http.Request, cookieHeader string) (*Response, error) {
	req.Header.Set("User-Agent", userAgent)
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	var setCookies []string
	hc := &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.Response != nil {
				setCookies = append(setCookies, req.Response.Header.Values("Set-Cookie")...)
			}
			if len(via) >= 10 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	setCookies = append(setCookies, resp.Header.Values("Set-Cookie")...)
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		SetCookies: setCookies,
	}, nil
}
