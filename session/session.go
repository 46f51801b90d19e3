// Package session holds the mutable authentication state for one remote
// account: the cookie set plus the anti-forgery and anti-automation tokens
// harvested from page markup. A Session is owned by exactly one
// login/submit/poll cycle at a time; callers serialize access per account.
package session

import "strings"

// SaveFunc persists the cookie set durably. It is invoked on every cookie
// replacement, before the session is reused for another request.
type SaveFunc func(cookies []string) error

type Session struct {
	// cookies are raw "name=value" pairs, possibly carrying Set-Cookie
	// attributes after the first ';'. Order is preserved; duplicate
	// names resolve last-write-wins.
	cookies []string

	csrf string // anti-forgery token, empty until first harvested
	ftaa string
	bfaa string

	save SaveFunc
}

// New builds a session from a previously saved cookie set. saved may be
// nil for a fresh session; save may be nil when persistence is not wanted
// (tests).
func New(saved []string, save SaveFunc) *Session {
	s := &Session{save: save}
	s.cookies = append(s.cookies, saved...)
	return s
}

// Cookies returns a copy of the current cookie set.
func (s *Session) Cookies() []string {
	out := make([]string, len(s.cookies))
	copy(out, s.cookies)
	return out
}

// ReplaceCookies swaps in a whole new cookie set and persists it. The
// replacement is atomic: if persistence fails the previous set is
// restored and the error returned.
func (s *Session) ReplaceCookies(cookies []string) error {
	prev := s.cookies
	s.cookies = make([]string, len(cookies))
	copy(s.cookies, cookies)
	if s.save != nil {
		if err := s.save(s.Cookies()); err != nil {
			s.cookies = prev
			return err
		}
	}
	return nil
}

// Cookie looks up a cookie value by name. When the set carries duplicates
// the last occurrence wins. Attributes after the first ';' are stripped.
func (s *Session) Cookie(name string) (string, bool) {
	for i := len(s.cookies) - 1; i >= 0; i-- {
		pair := strings.SplitN(s.cookies[i], ";", 2)[0]
		k, v, ok := strings.Cut(pair, "=")
		if ok && strings.TrimSpace(k) == name {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// CookieHeader renders the set as a request Cookie header value, with
// duplicate names collapsed last-write-wins.
func (s *Session) CookieHeader() string {
	var names []string
	values := map[string]string{}
	for _, c := range s.cookies {
		pair := strings.SplitN(c, ";", 2)[0]
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if _, seen := values[k]; !seen {
			names = append(names, k)
		}
		values[k] = strings.TrimSpace(v)
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+"="+values[n])
	}
	return strings.Join(parts, "; ")
}

// SetTokens records the anti-forgery token together with the two
// anti-automation tokens. All three must come from the same page fetch;
// mixing fetches is rejected silently by the remote, hence a single
// setter for the trio.
func (s *Session) SetTokens(csrf, ftaa, bfaa string) {
	s.csrf = csrf
	s.ftaa = ftaa
	s.bfaa = bfaa
}

// SetCsrf refreshes only the anti-forgery token. Used after submission,
// when the status listing hands out the token the poller will need.
func (s *Session) SetCsrf(csrf string) { s.csrf = csrf }

func (s *Session) Csrf() string { return s.csrf }
func (s *Session) Ftaa() string { return s.ftaa }
func (s *Session) Bfaa() string { return s.bfaa }
