// Package browser is the escalation of last resort: a real browser
// engine driven only when plain form login is blocked by an anti-bot
// challenge. The engine is expensive to start and is torn down after
// every attempt rather than kept resident.
package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/programme-lv/vjudge/srvcerror"
)

type Credentials struct {
	Handle   string
	Password string
}

// Engine performs one interactive login and returns the resulting
// cookie set as "name=value" pairs. Implementations honor ctx
// cancellation at every wait.
type Engine interface {
	Login(ctx context.Context, endpoint string, creds Credentials, proxy string) ([]string, error)
}

const ErrCodeBrowserUnavailable = "browser_unavailable"

func ErrBrowserUnavailable() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeBrowserUnavailable,
		"browser engine could not be started",
	).SetStage("browser-login")
}

const ErrCodeBrowserLoginFailed = "browser_login_failed"

func ErrBrowserLoginFailed() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeBrowserLoginFailed,
		"browser login did not produce a session cookie",
	).SetStage("browser-login")
}

// Chrome drives a headless Chrome via the devtools protocol.
type Chrome struct {
	// SessionCookie is the cookie whose appearance marks a completed
	// login. The anti-bot layer sets it only after its challenge passes.
	SessionCookie string
	// Timeout bounds the whole attempt, navigation included.
	Timeout time.Duration
}

func NewChrome() *Chrome {
	return &Chrome{
		SessionCookie: "evercookie_etag",
		Timeout:       90 * time.Second,
	}
}

func (c *Chrome) Login(ctx context.Context, endpoint string, creds Credentials, proxy string) ([]string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("lang", "en-US,en"),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if strings.HasPrefix(proxy, "http://") {
		opts = append(opts, chromedp.ProxyServer(strings.TrimPrefix(proxy, "http://")))
	}
	if os.Geteuid() == 0 {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	// starting the browser with no actions separates "no usable chrome
	// binary" from failures of the login flow itself
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, ErrBrowserUnavailable().SetDebug(err)
	}

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(strings.TrimRight(endpoint, "/")+"/enter"),
		chromedp.WaitVisible(`#handleOrEmail`, chromedp.ByID),
		chromedp.SendKeys(`#handleOrEmail`, creds.Handle, chromedp.ByID),
		chromedp.SendKeys(`#password`, creds.Password, chromedp.ByID),
		chromedp.Click(`#enterForm input[type="submit"]`, chromedp.ByQuery),
	)
	if err != nil {
		return nil, ErrBrowserLoginFailed().SetDebug(fmt.Errorf("drive login form: %w", err))
	}

	cookies, err := c.waitForSessionCookie(tabCtx)
	if err != nil {
		return nil, err
	}
	return cookies, nil
}

// waitForSessionCookie polls the tab's cookie store until the
// session-identifying cookie shows up with a value, bounded by the
// surrounding context deadline.
func (c *Chrome) waitForSessionCookie(ctx context.Context) ([]string, error) {
	for {
		var pairs []string
		found := false
		err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			cookies, err := storage.GetCookies().Do(ctx)
			if err != nil {
				return err
			}
			pairs = pairs[:0]
			for _, ck := range cookies {
				pairs = append(pairs, ck.Name+"="+ck.Value)
				if ck.Name == c.SessionCookie && ck.Value != "" {
					found = true
				}
			}
			return nil
		}))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrBrowserLoginFailed().SetDebug(ctx.Err())
			}
			return nil, ErrBrowserLoginFailed().SetDebug(err)
		}
		if found {
			return pairs, nil
		}
		select {
		case <-ctx.Done():
			return nil, ErrBrowserLoginFailed().SetDebug(ctx.Err())
		case <-time.After(time.Second):
		}
	}
}
