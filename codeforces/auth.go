package codeforces

import (
	"context"
	"net/url"

	"github.com/programme-lv/vjudge/browser"
)

// EnsureLogin walks the login strategies in fixed order: reuse the saved
// cookie set, then plain form login, then the browser engine. Each
// strategy runs at most once per call and stops the walk on success.
// Session cookie state only ever changes wholesale, through a strategy
// that produced a full replacement set.
func (p *Provider) EnsureLogin(ctx context.Context) error {
	ok, err := p.loggedIn(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	p.logger.Info("cookie session invalid, attempting form login")
	if err := p.formLogin(ctx); err != nil {
		return err
	}
	ok, err = p.loggedIn(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	p.logger.Info("form login blocked, escalating to browser login")
	if err := p.browserLogin(ctx); err != nil {
		if se, is := err.(interface{ ErrorCode() string }); is && se.ErrorCode() == browser.ErrCodeBrowserUnavailable {
			p.logger.Warn("browser engine unavailable, skipping strategy", "err", err)
			return ErrLoginFailed().SetDebug(err)
		}
		return err
	}
	ok, err = p.loggedIn(ctx)
	if err != nil {
		return err
	}
	if ok {
		p.logger.Info("logged in via browser")
		return nil
	}
	return ErrLoginFailed()
}

// loggedIn probes an authenticated-only page and classifies the body.
// Known-fragile: a transient CDN page can misclassify; see pages.go.
func (p *Provider) loggedIn(ctx context.Context) (bool, error) {
	resp, err := p.client.Get(ctx, p.url("/enter"), p.sess.CookieHeader())
	if err != nil {
		return false, err
	}
	if isLoginPage(resp.Body) {
		return false, nil
	}
	if isRedirectStub(resp.Body) {
		p.logger.Debug("got a redirect stub while probing session", "body", string(resp.Body))
		return false, nil
	}
	return true, nil
}

// formLogin posts credentials through the plain login form. On success
// the response carries a fresh cookie set which replaces the session's
// set atomically and is persisted through the save hook.
func (p *Provider) formLogin(ctx context.Context) error {
	csrf, ftaa, bfaa, err := p.harvestTokens(ctx, "/enter")
	if err != nil {
		return err
	}
	resp, err := p.client.PostForm(ctx, p.url("/enter"), p.sess.CookieHeader(), url.Values{
		"csrf_token":    {csrf},
		"action":        {"enter"},
		"ftaa":          {ftaa},
		"bfaa":          {bfaa},
		"handleOrEmail": {p.acc.Handle},
		"password":      {p.acc.Password},
		"remember":      {"on"},
	})
	if err != nil {
		return err
	}
	if len(resp.SetCookies) > 0 {
		if err := p.sess.ReplaceCookies(resp.SetCookies); err != nil {
			return err
		}
	}
	return nil
}

// browserLogin drives the full browser engine and adopts whatever cookie
// set it extracted once the session cookie appeared.
func (p *Provider) browserLogin(ctx context.Context) error {
	cookies, err := p.browser.Login(ctx, p.acc.Endpoint, browser.Credentials{
		Handle:   p.acc.Handle,
		Password: p.acc.Password,
	}, p.acc.Proxy)
	if err != nil {
		return err
	}
	return p.sess.ReplaceCookies(cookies)
}
