package common

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable matches every *ConnectivityError.
	ErrUnavailable = errors.New("ledger unavailable")

	// ErrRejected matches every *RemoteRejection.
	ErrRejected = errors.New("rejected by ledger")

	// ErrNotFound is returned when the ledger has no storage entry or
	// query result for the requested subject.
	ErrNotFound = errors.New("not found")

	// ErrSubmissionInFlight is returned when a submission is started while
	// another one on the same pipeline has not finished yet.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrSigning matches every *SignerError.
	ErrSigning = errors.New("signing failed")

	// ErrMalformedResponse is returned when the ledger answers with a payload
	// the client cannot interpret.
	ErrMalformedResponse = errors.New("malformed ledger response")
)

// ValidationError reports input that was refused locally, before any
// remote call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConnectivityError wraps transport failures: unreachable endpoint,
// timeouts, cancelled dials.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: ledger unreachable: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

func (e *ConnectivityError) Is(target error) bool {
	return target == ErrUnavailable
}

// RemoteRejection carries the message of a ledger that received the request
// but refused it (dispatch error, contract revert, bad signature).
type RemoteRejection struct {
	Op      string
	Message string
}

func (e *RemoteRejection) Error() string {
	return fmt.Sprintf("%s: rejected by ledger: %s", e.Op, e.Message)
}

func (e *RemoteRejection) Is(target error) bool {
	return target == ErrRejected
}

// SignerError wraps a wallet that refused or failed to sign a payload.
// Nothing was sent to the ledger.
type SignerError struct {
	Address string
	Err     error
}

func (e *SignerError) Error() string {
	return fmt.Sprintf("sign with %s: %v", e.Address, e.Err)
}

func (e *SignerError) Unwrap() error {
	return e.Err
}

func (e *SignerError) Is(target error) bool {
	return target == ErrSigning
}

// UserMessage renders err as a short human readable line for the CLI.
func UserMessage(err error) string {
	var (
		ve *ValidationError
		rr *RemoteRejection
		se *SignerError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "Invalid input: " + ve.Error()
	case errors.Is(err, ErrUnavailable):
		return "Ledger is unreachable, try again later"
	case errors.As(err, &rr):
		return "Ledger refused the request: " + rr.Message
	case errors.As(err, &se):
		return "Wallet could not sign the rating: " + se.Err.Error()
	case errors.Is(err, ErrSubmissionInFlight):
		return "Another submission is still in progress"
	default:
		return err.Error()
	}
}
