package codeforces

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/programme-lv/vjudge/planglist"
	"github.com/programme-lv/vjudge/provider"
)

// program type the site accepts for almost anything when the language
// id is not in the registry
const fallbackProgramTypeID = "54"

// Submit posts the ticket's solution through the submission form.
// A non-nil Rejection means the site refused it inline (compile or
// validation stage); no remote submission exists and the caller must
// not poll. Otherwise ticket.RemoteID holds the provider-assigned id
// and the session carries the anti-forgery token the poller needs.
func (p *Provider) Submit(ctx context.Context, ticket *provider.SubmissionTicket) (*provider.Rejection, error) {
	programTypeID := fallbackProgramTypeID
	source := ticket.Source
	if lang, err := planglist.GetProgrammingLanguageById(ticket.LangID); err == nil {
		programTypeID = lang.ProgramTypeID
		source = stampBanner(lang, ticket, source)
	} else {
		p.logger.Warn("language id not in registry, submitting with fallback program type",
			"lang", ticket.LangID)
	}

	typ, contestID, problemID, err := parseProblemID(ticket.ProblemID)
	if err != nil {
		return nil, err
	}
	submitPath := "/problemset/submit"
	if typ == "GYM" {
		submitPath = fmt.Sprintf("/gym/%s/submit", contestID)
	}

	// tokens are short-lived; harvest immediately before the post
	csrf, ftaa, bfaa, err := p.harvestTokens(ctx, submitPath)
	if err != nil {
		return nil, err
	}
	antiBot, ok := p.sess.Cookie("39ce7")
	if !ok {
		return nil, ErrMissingAntiBotCookie()
	}

	form := url.Values{
		"csrf_token":    {csrf},
		"action":        {"submitSolutionFormSubmitted"},
		"programTypeId": {programTypeID},
		"source":        {source},
		"tabsize":       {"4"},
		"sourceFile":    {""},
		"ftaa":          {ftaa},
		"bfaa":          {bfaa},
		"_tta":          {fmt.Sprint(tta(antiBot))},
	}
	if typ == "GYM" {
		form.Set("submittedProblemIndex", problemID)
	} else {
		form.Set("submittedProblemCode", contestID+problemID)
		form.Set("sourceCodeConfirmed", "true")
	}

	resp, err := p.client.PostForm(ctx, p.url(submitPath+"?csrf_token="+url.QueryEscape(csrf)), p.sess.CookieHeader(), form)
	if err != nil {
		return nil, err
	}
	if msg := inlineErrorText(resp.Body); msg != "" {
		p.logger.Info("submission rejected inline", "message", msg)
		return &provider.Rejection{Message: msg}, nil
	}

	remoteID, err := p.resolveSubmissionID(ctx, typ, contestID)
	if err != nil {
		return nil, err
	}
	ticket.RemoteID = remoteID
	p.logger.Info("submission accepted by remote", "remote_id", remoteID)
	return nil, nil
}

// stampBanner prepends the language's comment syntax around a uniqueness
// marker so that resubmitting identical source is not rejected as a
// duplicate.
func stampBanner(lang *planglist.ProgrammingLang, ticket *provider.SubmissionTicket, source string) string {
	if lang.CommentStart == "" {
		return source
	}
	marker := fmt.Sprintf("vjudge submission #%s@%d", ticket.RequestID, time.Now().UnixMilli())
	if lang.CommentEnd != "" {
		return fmt.Sprintf("%s %s %s\n%s", lang.CommentStart, marker, lang.CommentEnd, source)
	}
	return fmt.Sprintf("%s %s\n%s", lang.CommentStart, marker, source)
}

// inlineErrorText joins the error spans the submit page renders when the
// site refuses a submission at validation/compile stage.
func inlineErrorText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var parts []string
	doc.Find(".error").Each(func(_ int, sel *goquery.Selection) {
		parts = append(parts, sel.Text())
	})
	joined := strings.Join(parts, "")
	joined = strings.ReplaceAll(joined, " ", " ")
	return strings.TrimSpace(joined)
}

// resolveSubmissionID reads the provider-assigned id off the first row
// of the account's own status listing, and captures the anti-forgery
// token that listing hands out for the status-source poll. Race
// sensitive: the newest row is this submission only because sessions are
// serialized to one in-flight submission per account.
func (p *Provider) resolveSubmissionID(ctx context.Context, typ, contestID string) (string, error) {
	statusPath := "/problemset/status?my=on"
	if typ == "GYM" {
		statusPath = fmt.Sprintf("/gym/%s/my", contestID)
	}
	resp, err := p.client.Get(ctx, p.url(statusPath), p.sess.CookieHeader())
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return "", err
	}
	csrf, ok := doc.Find(`meta[name="X-Csrf-Token"]`).Attr("content")
	if !ok || csrf == "" {
		return "", ErrProtocolMismatch("csrf token on status listing", resp.Body).SetStage("submit")
	}
	p.sess.SetCsrf(csrf)

	id, ok := doc.Find("[data-submission-id]").First().Attr("data-submission-id")
	if !ok || id == "" {
		return "", ErrProtocolMismatch("submission row on status listing", resp.Body).SetStage("submit")
	}
	return id, nil
}
