// Package progress turns tracked user activity into stat counters, evaluates
// the achievement catalog against them and grants each unlock at most once.
//
// Correctness under concurrency is delegated to the store: the activity log
// and the unlock table carry unique indexes, inserts use ON CONFLICT DO
// NOTHING and counters only move through "col = col + n" updates. Nothing in
// this package holds a lock across requests, so several server instances can
// process the same user at once.
package progress
