// Package cli provides the interactive reputation command-line client.
//
// It wires configuration, the local cache, the ledger client and the
// submission/query pipelines behind a small REPL. A background watcher pings
// the ledger and flips the prompt between online and offline.
//
// Key features:
//   - Submit a rating with a connected wallet
//   - List ratings, per seller views with averages, raw storage reads
//   - Per seller summaries of the last listing
//   - Local history of submitted ratings
//   - JSON export of the last listing to S3
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
