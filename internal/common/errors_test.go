package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_IsAndMessage(t *testing.T) {
	err := fmt.Errorf("submit: %w", &ValidationError{Field: "articleScore", Message: "must be between 1 and 5"})

	require.ErrorIs(t, err, ErrValidation)
	assert.False(t, errors.Is(err, ErrUnavailable))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "articleScore: must be between 1 and 5", ve.Error())
	assert.Equal(t, "wallet not connected", (&ValidationError{Message: "wallet not connected"}).Error())
}

func TestConnectivityError_UnwrapsCause(t *testing.T) {
	err := &ConnectivityError{Op: "query", Err: context.DeadlineExceeded}

	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "query")
}

func TestRemoteRejection_Is(t *testing.T) {
	err := &RemoteRejection{Op: "send", Message: "Module(Revive)"}

	require.ErrorIs(t, err, ErrRejected)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestSignerError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("user declined")
	err := fmt.Errorf("submit: %w", &SignerError{Address: "0xab", Err: cause})

	require.ErrorIs(t, err, ErrSigning)
	require.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ErrRejected))
	assert.Equal(t, "submit: sign with 0xab: user declined", err.Error())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Field: "signer", Message: "wallet not connected"}, "Invalid input: signer: wallet not connected"},
		{"connectivity", &ConnectivityError{Op: "send", Err: errors.New("eof")}, "Ledger is unreachable, try again later"},
		{"rejection", &RemoteRejection{Op: "send", Message: "bad origin"}, "Ledger refused the request: bad origin"},
		{"signer", fmt.Errorf("submit: %w", &SignerError{Address: "0xab", Err: errors.New("device locked")}), "Wallet could not sign the rating: device locked"},
		{"in flight", ErrSubmissionInFlight, "Another submission is still in progress"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
