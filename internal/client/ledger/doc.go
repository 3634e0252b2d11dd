// Package ledger is the client side of the reputation contract gateway.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with the three
//     remote operations the pipelines rely on: Query ("get_all_ratings",
//     "get_ratings_for_subject"), Send ("submit_rating") and ReadStorage,
//     plus Ping for liveness.
//  2. A gRPC implementation (see GRPCClient). Messages are plain Go structs
//     carried by a JSON codec registered under the "json" content subtype, so
//     no generated stubs are needed. Interceptors attach the API key and the
//     submission correlation id and apply a client-side rate limit.
//  3. The raw storage layout used when reading contract storage directly:
//     a per-subject index of entry keys and one protowire-encoded record per
//     entry (see storage.go and LoadSubjectRecords).
//
// # Error Handling
//
// Transport errors are mapped at this boundary:
//
//	Unavailable, DeadlineExceeded, ResourceExhausted -> *common.ConnectivityError
//	NotFound                                          -> common.ErrNotFound
//	InvalidArgument, FailedPrecondition, ...          -> *common.RemoteRejection
//
// A query answered with success=false and a send answered with ok=false are
// reported as *common.RemoteRejection carrying the ledger's message. Missing
// required fields yield common.ErrMalformedResponse.
//
// The in-memory server in package ledgertest implements ContractServer and
// is what the tests run against.
package ledger
