package ledger

import "errors"

var (
	// ErrInvalidAmount rejects non-positive transfer amounts, negative
	// pool contributions and transfers from a participant to itself.
	ErrInvalidAmount = errors.New("ledger: invalid amount")
	// ErrInsufficientFunds rejects a transfer that would drive a non-bank
	// balance negative.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrNotAuthority rejects authority-only operations from callers that
	// do not hold the authority role.
	ErrNotAuthority = errors.New("ledger: caller is not the authority")
	// ErrNoBankAssigned signals that no bank exists and none can be
	// elected (empty roster).
	ErrNoBankAssigned = errors.New("ledger: no bank assigned")
	// ErrUnknownParticipant signals an id that is not in the session.
	ErrUnknownParticipant = errors.New("ledger: unknown participant")
)
