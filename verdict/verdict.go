// Package verdict maps the remote judge's status vocabulary onto a fixed
// canonical status set. The remote strings are an external, versionless
// contract: anything unrecognized degrades to wrong answer so that a new
// string on the site never stalls a submission.
package verdict

import "strings"

type Status string

const (
	StatusAccepted       Status = "accepted"
	StatusWrongAnswer    Status = "wrong_answer"
	StatusTimeExceeded   Status = "time_limit_exceeded"
	StatusMemoryExceeded Status = "memory_limit_exceeded"
	StatusRuntimeError   Status = "runtime_error"
	StatusCompileError   Status = "compile_error"
	StatusSystemError    Status = "system_error"
	StatusJudging        Status = "judging"
)

// known remote verdict keys, longest first so that substring matching
// in FromAggregate can never pick a shorter key embedded in a longer one
var knownKeys = []string{
	"IDLENESS_LIMIT_EXCEEDED",
	"MEMORY_LIMIT_EXCEEDED",
	"TIME_LIMIT_EXCEEDED",
	"COMPILATION_ERROR",
	"SECURITY_VIOLATED",
	"WRONG_ANSWER",
	"RUNTIME_ERROR",
	"CHALLENGED",
	"ACCEPTED",
	"CRASHED",
	"TESTING",
	"OK",
}

var keyStatus = map[string]Status{
	"IDLENESS_LIMIT_EXCEEDED": StatusTimeExceeded,
	"MEMORY_LIMIT_EXCEEDED":   StatusMemoryExceeded,
	"TIME_LIMIT_EXCEEDED":     StatusTimeExceeded,
	"COMPILATION_ERROR":       StatusCompileError,
	"SECURITY_VIOLATED":       StatusRuntimeError,
	"WRONG_ANSWER":            StatusWrongAnswer,
	"RUNTIME_ERROR":           StatusRuntimeError,
	"CHALLENGED":              StatusWrongAnswer,
	"ACCEPTED":                StatusAccepted,
	"CRASHED":                 StatusSystemError,
	"TESTING":                 StatusJudging,
	"OK":                      StatusAccepted,
}

// Normalize upper-cases a remote verdict string and joins words with
// underscores, the form the key table is written in.
func Normalize(raw string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), " ", "_")
}

// FromExact resolves a single per-case verdict field. The remote reports
// per-case verdicts as bare keys ("OK", "WRONG_ANSWER", ...), so only an
// exact match counts. ok is false for empty or unknown strings.
func FromExact(raw string) (Status, bool) {
	s, ok := keyStatus[Normalize(raw)]
	return s, ok
}

// FromAggregate resolves the overall verdict string, which embeds the
// failing case ("WRONG_ANSWER on test 2"), so matching is by substring.
// Unrecognized strings map to wrong answer; ok reports whether a known
// key matched so the caller can log the miss.
func FromAggregate(raw string) (Status, bool) {
	n := Normalize(raw)
	for _, k := range knownKeys {
		if strings.Contains(n, k) {
			return keyStatus[k], true
		}
	}
	return StatusWrongAnswer, false
}
