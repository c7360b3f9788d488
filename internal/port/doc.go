// Package port aggregates docks into a harbor.
//
// A Port owns a fixed set of docks, a dock choice policy, and a current
// date. Every front end drives it through the Harbor interface, which the
// audit decorator also implements.
//
// # Dock Choice
//
// An arriving boat is offered to the docks in the order given by the dock
// choice policy and lands in the first that accepts it:
//
//	Emptiest // most completely empty slots first (default)
//	InOrder  // declaration order
//
// Identity codes are unique across the whole port. Admitting a boat whose
// identity is already berthed anywhere fails with a duplicate identity
// error rather than a false result.
//
// # Time
//
// IncrementTime ticks each dock and advances the date by one day. Dates
// carry no time of day.
package port
