// Package tripsplit reconciles shared trip expenses recorded by multiple
// participants, each possibly in a different currency, into a canonical net
// balance per participant and a minimal set of point-to-point payments that
// settles all balances.
//
// The engine is a pure, synchronous batch computation over immutable in-memory
// records: expenses are normalized into a single base currency ([RateTable]),
// distributed among included participants according to weights ([Allocate]),
// reduced to per-participant net balances ([Aggregate]), and finally turned
// into a payment plan ([Settle]). A [Trip] bundles the four input record sets
// and runs the whole pipeline with [Trip.Reconcile].
//
// The engine performs no I/O; CSV import/export helpers and an exchange-rate
// fetcher are provided for the surrounding tooling, and the engine is safe to
// invoke in parallel for distinct input sets.
package tripsplit
