// Package codeforces implements the remote-judge provider for
// codeforces.com: session management against its anti-automation
// defenses, solution submission, and incremental result polling.
package codeforces

import (
	"log/slog"
	"strings"
	"time"

	"github.com/programme-lv/vjudge/browser"
	"github.com/programme-lv/vjudge/provider"
	"github.com/programme-lv/vjudge/scrape"
	"github.com/programme-lv/vjudge/session"
)

const defaultEndpoint = "https://codeforces.com"

type Provider struct {
	acc  provider.RemoteAccount
	sess *session.Session

	client  scrape.Client
	browser browser.Engine
	logger  *slog.Logger

	pollEvery time.Duration
}

var _ provider.Provider = (*Provider)(nil)

type Option func(*Provider)

// WithClient replaces the HTTP transport; tests inject fakes here.
func WithClient(c scrape.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithBrowser replaces the browser-login engine.
func WithBrowser(e browser.Engine) Option {
	return func(p *Provider) { p.browser = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithPollInterval changes the sleep between status polls. The default
// of three seconds is deliberately rate-limit friendly.
func WithPollInterval(d time.Duration) Option {
	return func(p *Provider) { p.pollEvery = d }
}

// New builds a provider for one remote account. save receives every
// cookie-set change and must persist it durably before the session is
// reused.
func New(acc provider.RemoteAccount, save session.SaveFunc, opts ...Option) (*Provider, error) {
	if acc.Endpoint == "" {
		acc.Endpoint = defaultEndpoint
	}
	acc.Endpoint = strings.TrimRight(acc.Endpoint, "/")

	p := &Provider{
		acc:       acc,
		sess:      session.New(acc.Cookies, save),
		logger:    slog.Default().With("provider", "codeforces", "account", acc.Handle),
		pollEvery: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		c, err := scrape.NewHTTPClient(acc.Proxy)
		if err != nil {
			return nil, err
		}
		p.client = c
	}
	if p.browser == nil {
		p.browser = browser.NewChrome()
	}
	return p, nil
}

// Session exposes the live session, mainly so a caller that persists
// state out of band can inspect the cookie set.
func (p *Provider) Session() *session.Session { return p.sess }

func (p *Provider) url(path string) string {
	if strings.Contains(path, "//") {
		return path
	}
	return p.acc.Endpoint + path
}
