package codeforces

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var problemIDRe = regexp.MustCompile(`^(P|GYM)(\d+)([A-Z]+[0-9]*)$`)

// parseProblemID splits a local problem id into the remote's contest and
// problem-index coordinates. GYM contests below 100000 are stored
// offset locally and shifted back here. The P921 family is a site
// oddity: a single contest whose problems are indexed 01, 02, ...
func parseProblemID(id string) (typ, contestID, problemID string, err error) {
	if strings.HasPrefix(id, "P921") {
		return "P", "921", "01", nil
	}
	m := problemIDRe.FindStringSubmatch(id)
	if m == nil {
		return "", "", "", ErrInvalidProblemID(id)
	}
	typ, contestID, problemID = m[1], m[2], m[3]
	if typ == "GYM" {
		n, convErr := strconv.Atoi(contestID)
		if convErr != nil {
			return "", "", "", ErrInvalidProblemID(id)
		}
		if n < 100000 {
			contestID = strconv.Itoa(n + 100000)
		}
	}
	return typ, contestID, problemID, nil
}

// hidden contests whose problems the listing must skip
var hiddenProblemPrefixes = []string{"P1772", "P1769"}

// ListProblemIDs scrapes one page of the problemset listing and returns
// local problem ids. A page number past the end returns an empty slice:
// the site then serves some earlier page, detected via the active
// page-index marker.
func (p *Provider) ListProblemIDs(ctx context.Context, page int) ([]string, error) {
	resp, err := p.client.Get(ctx, p.url(fmt.Sprintf("/problemset/page/%d", page)), p.sess.CookieHeader())
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	active, ok := doc.Find(".page-index.active").Attr("pageindex")
	if !ok {
		return nil, ErrProtocolMismatch("active page index", resp.Body)
	}
	if active != strconv.Itoa(page) {
		return nil, nil
	}
	var ids []string
	doc.Find(".id > a").Each(func(_ int, sel *goquery.Selection) {
		id := "P" + strings.TrimSpace(sel.Text())
		for _, hidden := range hiddenProblemPrefixes {
			if strings.HasPrefix(id, hidden) {
				return
			}
		}
		ids = append(ids, id)
	})
	return ids, nil
}

// ListGymContestIDs scrapes one page of the gym listing and returns the
// contest ids found there.
func (p *Provider) ListGymContestIDs(ctx context.Context, page int) ([]string, error) {
	resp, err := p.client.Get(ctx, p.url(fmt.Sprintf("/gyms/page/%d", page)), p.sess.CookieHeader())
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	if active, ok := doc.Find(".page-index.active").Attr("pageindex"); ok && active != strconv.Itoa(page) {
		return nil, nil
	}
	var ids []string
	// the HTML parser lowercases attribute names
	doc.Find("[data-contestid]").Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr("data-contestid"); ok {
			ids = append(ids, "GYM"+v)
		}
	})
	return ids, nil
}
