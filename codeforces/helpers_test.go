package codeforces

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/programme-lv/vjudge/browser"
	"github.com/programme-lv/vjudge/provider"
	"github.com/programme-lv/vjudge/scrape"
)

type recordedRequest struct {
	Method string
	URL    string
	Cookie string
	Form   url.Values
}

// fakeClient scripts transport responses per URL path and records every
// request for assertions.
type fakeClient struct {
	handler  func(req recordedRequest) (*scrape.Response, error)
	requests []recordedRequest
}

func (f *fakeClient) Get(_ context.Context, rawURL string, cookieHeader string) (*scrape.Response, error) {
	req := recordedRequest{Method: "GET", URL: rawURL, Cookie: cookieHeader}
	f.requests = append(f.requests, req)
	return f.handler(req)
}

func (f *fakeClient) PostForm(_ context.Context, rawURL string, cookieHeader string, form url.Values) (*scrape.Response, error) {
	req := recordedRequest{Method: "POST", URL: rawURL, Cookie: cookieHeader, Form: form}
	f.requests = append(f.requests, req)
	return f.handler(req)
}

func htmlResponse(body string) (*scrape.Response, error) {
	return &scrape.Response{StatusCode: 200, Body: []byte(body)}, nil
}

type fakeBrowser struct {
	calls   int
	cookies []string
	err     error
	onLogin func()
}

func (f *fakeBrowser) Login(context.Context, string, browser.Credentials, string) ([]string, error) {
	f.calls++
	if f.onLogin != nil {
		f.onLogin()
	}
	return f.cookies, f.err
}

func newTestProvider(t *testing.T, client *fakeClient, opts ...Option) *Provider {
	t.Helper()
	acc := provider.RemoteAccount{
		Handle:   "tourist2",
		Password: "hunter2",
	}
	all := append([]Option{
		WithClient(client),
		WithBrowser(&fakeBrowser{}),
		WithPollInterval(time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	p, err := New(acc, nil, all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// captured-page style fixtures, trimmed to the markup the provider
// actually keys on

const loginPageHTML = `<html><head>
<meta name="X-Csrf-Token" content="abc123csrf"/>
</head><body>
<div class="menu"></div>
<form id="enterForm">Login into Codeforces
<input type="text" name="handleOrEmail"/><input type="password" name="password"/>
</form>
<script>window._bfaa = "0123456789abcdef0123456789abcdef";</script>
</body></html>`

const homePageHTML = `<html><head><meta name="X-Csrf-Token" content="home-csrf"/></head>
<body><div class="menu">Logout</div><div class="content">Problemset and much more padding `

const redirectStubHTML = `<html><body>Redirecting... <a href="/">click</a></body></html>`

const submitPageHTML = `<html><head>
<meta name="X-Csrf-Token" content="submit-csrf"/>
</head><body>
<div class="menu"></div>
<form class="submit-form"><input name="csrf_token" value="submit-csrf"/></form>
</body></html>`

const submitErrorHTML = `<html><head>
<meta name="X-Csrf-Token" content="submit-csrf"/>
</head><body>
<div class="menu"></div>
<span class="error for__source">You have submitted exactly the same code before</span>
</body></html>`

const statusListingHTML = `<html><head>
<meta name="X-Csrf-Token" content="poll-csrf"/>
</head><body>
<div class="menu"></div>
<table>
<tr data-submission-id="271828182"><td>newest</td></tr>
<tr data-submission-id="271828000"><td>older</td></tr>
</table>
</body></html>`

// padded so bodies stay above the redirect-stub size threshold
func padded(html string) string {
	return html + strings.Repeat("<!-- pad -->", 100) + "</body></html>"
}
