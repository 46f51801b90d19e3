package provider

import (
	"github.com/google/uuid"

	"github.com/programme-lv/vjudge/verdict"
)

// RemoteAccount is one account on the remote judge. The caller owns it;
// the provider borrows it for the duration of one login/submit/poll
// cycle. Only the cookie set changes over time, through the session's
// save hook.
type RemoteAccount struct {
	Endpoint string // base URL of the remote judge
	Handle   string
	Password string
	Proxy    string   // optional outbound proxy URL
	Cookies  []string // previously saved cookie set, may be nil
}

// SubmissionTicket is one solution headed for the remote judge. Created
// by the caller, consumed once by Submit, which fills in RemoteID.
type SubmissionTicket struct {
	RequestID uuid.UUID // local request id, stamped into the banner
	ProblemID string    // e.g. "P1000A" or "GYM104053B"
	LangID    string    // local language id, see planglist
	Source    string

	RemoteID string // provider-assigned submission id, set by Submit
}

// CaseResult is one test case's outcome, emitted incrementally while the
// remote is still judging. Not retained by the provider after emission.
type CaseResult struct {
	ID        int // 1-based, strictly increasing within a submission
	SubtaskID int
	Status    verdict.Status
	TimeMs    int64
	MemKiB    int64
	Message   string
}

// FinalResult is the terminal aggregate, emitted exactly once.
type FinalResult struct {
	Status verdict.Status
	Score  int // 100 iff accepted, else 0
	TimeMs int64
	MemKiB int64
}

// Rejection is the submit-time compile/validation rejection: a defined
// terminal outcome, not an error. No remote submission id exists.
type Rejection struct {
	Message string
}

// Callbacks is how judging progress flows back to the job runner.
// Case fires per test in index order; CompileLog carries the compiler
// diagnostic when compilation fails asynchronously; Final fires exactly
// once, strictly after all Case emissions.
type Callbacks struct {
	Case       func(CaseResult)
	CompileLog func(string)
	Final      func(FinalResult)
}
