package codeforces

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/vjudge/provider"
	"github.com/programme-lv/vjudge/scrape"
)

func newTicket(problem, lang string) *provider.SubmissionTicket {
	return &provider.SubmissionTicket{
		RequestID: uuid.MustParse("0190b9c5-0000-7000-8000-c0ffee000001"),
		ProblemID: problem,
		LangID:    lang,
		Source:    "int main() {}\n",
	}
}

// scripted happy-path transport for submissions: the session already
// carries the anti-bot cookie, the submit page yields tokens, the form
// post succeeds, and the status listing shows one fresh row.
func submitScript(t *testing.T, postedForm *map[string][]string) *fakeClient {
	t.Helper()
	return &fakeClient{handler: func(req recordedRequest) (*scrape.Response, error) {
		switch {
		case req.Method == "GET" && pathOf(req.URL) == "/problemset/submit":
			return htmlResponse(padded(submitPageHTML))
		case req.Method == "POST" && pathOf(req.URL) == "/problemset/submit":
			if postedForm != nil {
				*postedForm = req.Form
			}
			return htmlResponse(padded(homePageHTML))
		case req.Method == "GET" && pathOf(req.URL) == "/problemset/status":
			return htmlResponse(padded(statusListingHTML))
		default:
			t.Fatalf("unexpected request %s %s", req.Method, req.URL)
			return nil, nil
		}
	}}
}

func withAntiBotCookie(p *Provider) {
	_ = p.Session().ReplaceCookies([]string{"39ce7=8f4104b91ad2caa8e1; Path=/"})
}

func TestSubmitResolvesNewestSubmissionID(t *testing.T) {
	var form map[string][]string
	p := newTestProvider(t, submitScript(t, &form))
	withAntiBotCookie(p)

	ticket := newTicket("P1000A", "cpp17")
	rejection, err := p.Submit(context.Background(), ticket)
	require.NoError(t, err)
	require.Nil(t, rejection)
	assert.Equal(t, "271828182", ticket.RemoteID, "must read the first, newest row")
	assert.Equal(t, "poll-csrf", p.Session().Csrf(), "poller token comes from the status listing")
}

func TestSubmitFormFields(t *testing.T) {
	var form map[string][]string
	p := newTestProvider(t, submitScript(t, &form))
	withAntiBotCookie(p)

	_, err := p.Submit(context.Background(), newTicket("P1000A", "cpp17"))
	require.NoError(t, err)

	assert.Equal(t, []string{"submit-csrf"}, form["csrf_token"])
	assert.Equal(t, []string{"submitSolutionFormSubmitted"}, form["action"])
	assert.Equal(t, []string{"54"}, form["programTypeId"])
	assert.Equal(t, []string{"1000A"}, form["submittedProblemCode"])
	assert.Equal(t, []string{"true"}, form["sourceCodeConfirmed"])
	assert.Equal(t, []string{"4"}, form["tabsize"])
	// derived from the fixed 39ce7 cookie value above
	assert.Equal(t, []string{"368"}, form["_tta"])

	source := form["source"][0]
	assert.True(t, strings.HasPrefix(source, "// vjudge submission #0190b9c5-0000-7000-8000-c0ffee000001@"),
		"banner with request id must be stamped, got %q", source)
	assert.True(t, strings.HasSuffix(source, "int main() {}\n"))
}

func TestSubmitGymUsesProblemIndex(t *testing.T) {
	var form map[string][]string
	client := &fakeClient{handler: func(req recordedRequest) (*scrape.Response, error) {
		switch {
		case req.Method == "GET" && pathOf(req.URL) == "/gym/104053/submit":
			return htmlResponse(padded(submitPageHTML))
		case req.Method == "POST" && pathOf(req.URL) == "/gym/104053/submit":
			form = req.Form
			return htmlResponse(padded(homePageHTML))
		case req.Method == "GET" && pathOf(req.URL) == "/gym/104053/my":
			return htmlResponse(padded(statusListingHTML))
		default:
			t.Fatalf("unexpected request %s %s", req.Method, req.URL)
			return nil, nil
		}
	}}
	p := newTestProvider(t, client)
	withAntiBotCookie(p)

	ticket := newTicket("GYM104053B", "cpp17")
	rejection, err := p.Submit(context.Background(), ticket)
	require.NoError(t, err)
	require.Nil(t, rejection)
	assert.Equal(t, []string{"B"}, form["submittedProblemIndex"])
	assert.Nil(t, form["submittedProblemCode"])
}

func TestSubmitInlineRejection(t *testing.T) {
	client := &fakeClient{handler: func(req recordedRequest) (*scrape.Response, error) {
		switch {
		case req.Method == "GET" && pathOf(req.URL) == "/problemset/submit":
			return htmlResponse(padded(submitPageHTML))
		case req.Method == "POST":
			return htmlResponse(padded(submitErrorHTML))
		default:
			t.Fatalf("status listing must not be fetched after a rejection, got %s %s", req.Method, req.URL)
			return nil, nil
		}
	}}
	p := newTestProvider(t, client)
	withAntiBotCookie(p)

	ticket := newTicket("P1000A", "cpp17")
	rejection, err := p.Submit(context.Background(), ticket)
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, "You have submitted exactly the same code before", rejection.Message)
	assert.Empty(t, ticket.RemoteID)
}

func TestSubmitMissingAntiBotCookie(t *testing.T) {
	p := newTestProvider(t, submitScript(t, nil))

	_, err := p.Submit(context.Background(), newTicket("P1000A", "cpp17"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "39ce7")
}

func TestStampBannerBlockComment(t *testing.T) {
	var form map[string][]string
	p := newTestProvider(t, submitScript(t, &form))
	withAntiBotCookie(p)

	_, err := p.Submit(context.Background(), newTicket("P1000A", "pascal"))
	require.NoError(t, err)
	source := form["source"][0]
	assert.True(t, strings.HasPrefix(source, "{ vjudge submission #"), "got %q", source)
	assert.Contains(t, strings.SplitN(source, "\n", 2)[0], "}")
}
