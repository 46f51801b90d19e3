// Package provider defines the contract between the job runner and a
// remote-judge provider implementation.
package provider

import "context"

// Provider is one remote judge integration. Implementations serialize
// use per account: one session carries single-valued token state shared
// by submit and poll, so a second in-flight submission would corrupt the
// first.
type Provider interface {
	// EnsureLogin makes the session usable, escalating through login
	// strategies as needed. It mutates session state only on a fully
	// successful strategy.
	EnsureLogin(ctx context.Context) error

	// Submit posts the ticket's solution. On inline compile/validation
	// rejection it returns a non-nil Rejection and no remote id; the
	// caller records a terminal compile-error immediately and must not
	// poll. Otherwise ticket.RemoteID is filled in.
	Submit(ctx context.Context, ticket *SubmissionTicket) (*Rejection, error)

	// Poll streams judging progress for a submitted ticket until the
	// remote reaches a terminal state. Cancelling ctx aborts promptly
	// without a Final emission.
	Poll(ctx context.Context, remoteID string, cb Callbacks) error
}
