// Package rewardledger implements watch-reward accounting inside the
// engagement context.
//
// The module owns the grant-per-(viewer, video) ledger, the global per-viewer
// throttle, and the decaying daily payout curve. Every grant runs inside one
// serialized transaction holding an exclusive lock on the viewer's
// reputation record; reward events are appended to an outbox in the same
// transaction and relayed by a worker.
package rewardledger
