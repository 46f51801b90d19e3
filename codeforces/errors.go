package codeforces

import (
	"github.com/programme-lv/vjudge/srvcerror"
)

const ErrCodeLoginFailed = "login_failed"

// ErrLoginFailed means every login strategy was exhausted. Fatal for the
// current cycle; any outer retry/backoff belongs to the caller.
func ErrLoginFailed() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeLoginFailed,
		"all login strategies exhausted",
	).SetStage("login")
}

const ErrCodeProtocolMismatch = "protocol_mismatch"

// ErrProtocolMismatch means expected page markup was absent. The raw
// page is attached for diagnosis since the site's markup changes without
// notice.
func ErrProtocolMismatch(what string, page []byte) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeProtocolMismatch,
		"expected page markup absent: "+what,
	).AttachPage(page)
}

const ErrCodeMissingAntiBotCookie = "missing_anti_bot_cookie"

func ErrMissingAntiBotCookie() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeMissingAntiBotCookie,
		"session lacks the 39ce7 cookie needed for the submit token",
	).SetStage("submit")
}

const ErrCodeInvalidProblemID = "invalid_problem_id"

func ErrInvalidProblemID(id string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidProblemID,
		"problem id not in P/GYM form: "+id,
	)
}
