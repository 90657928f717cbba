// Package bestscore provides persistent implementations of engine.BestScoreStore.
//
// The best score is a single non-negative integer keyed by a fixed identifier
// (DefaultKey unless configured otherwise). Both stores follow the same rules:
//
//   - Load returns 0 when the value is absent, unreadable or unparsable
//   - Save never lowers the stored value
//   - Save failures are logged and swallowed so a move never fails on I/O
//
// FileStore keeps the value as decimal text in <dir>/<key>. PostgresStore keeps
// one row per key in the best_scores table and applies its schema on start.
package bestscore

// DefaultKey identifies the best score when no key is configured
const DefaultKey = "best2048"
