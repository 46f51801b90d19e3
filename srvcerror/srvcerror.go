// Package srvcerror carries structured failures across the provider:
// a stable error code, a message fit for the caller, a private debug
// error, the pipeline stage that failed, and optionally the raw remote
// page for markup-change diagnosis.
package srvcerror

type Error struct {
	errorCode  string
	msgToUser  string // public
	dbgInfoErr error  // private, for debugging

	stage   string // login / submit / poll step that failed
	rawPage []byte // remote page body attached for diagnosis
}

func (e *Error) Error() string {
	if e.stage != "" {
		return e.stage + ": " + e.msgToUser
	}
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) DebugInfo() error {
	return e.dbgInfoErr
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgInfoErr = err
	return e
}

// Stage names the step the failure occurred in, so the caller can tell
// "fix your credentials" apart from "the site changed" and "network blip".
func (e *Error) Stage() string {
	return e.stage
}

func (e *Error) SetStage(stage string) *Error {
	e.stage = stage
	return e
}

// RawPage returns the remote page body attached to a markup-mismatch
// failure, or nil.
func (e *Error) RawPage() []byte {
	return e.rawPage
}

func (e *Error) AttachPage(body []byte) *Error {
	e.rawPage = make([]byte, len(body))
	copy(e.rawPage, body)
	return e
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}
