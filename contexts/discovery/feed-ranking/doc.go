// Package feedranking implements the ranked video feed inside the
// discovery context.
//
// The module owns signal aggregation, the engagement score function, keyset
// pagination over the ranked ordering, and comment-thread reads. All reads
// are lock-free queries; reward accounting lives in engagement/reward-ledger.
// Business rules stay in application/domain layers and infrastructure is
// isolated behind ports and adapters.
package feedranking
