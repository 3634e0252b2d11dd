// Package common contains shared constants, the error taxonomy and small
// helpers used across the reputation client layers.
package common

// APIKeyHeaderName is the gRPC metadata key used to carry the ledger
// gateway API key on outbound requests.
const APIKeyHeaderName = "x-api-key"

// CorrelationIDHeaderName carries the per-submission correlation id.
const CorrelationIDHeaderName = "x-correlation-id"

// Score bounds accepted by the rating contract.
const (
	MinScore = 1
	MaxScore = 5
)
