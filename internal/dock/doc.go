// Package dock implements the slot array and berthing logic of a single dock.
//
// A dock is a fixed row of slots. Each slot is empty (nil) or bound to a
// Berth. Boats with a berth space of at least 1 get an exclusive berth
// spanning ceil(BerthSpace) contiguous slots, all pointing at the same
// Berth value. Smaller boats share a single slot through a shared berth
// whose members never exceed a combined space of 1.
//
// # Berthing
//
// Placement is delegated to a BerthingAlgorithm resolved by name from a
// fixed registry. FirstFit is the default and currently the only entry.
//
// # Time
//
// IncrementTime ages every occupant by one day, collects those that have
// reached their berth time into LeftToday, and removes them. Departures
// are ordered by slot index, then by insertion order within a shared berth.
//
// A Dock is not safe for concurrent use.
package dock
