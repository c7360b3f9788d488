// Package boat models the vessels that seek mooring in the harbor.
//
// The set of boat kinds is closed. Each Kind maps to a constant Spec
// holding its identity prefix, the inclusive limits for weight, top speed,
// and its kind-specific characteristic, plus the berth space it consumes
// and the number of days it stays:
//
//	Kind       Prefix  BerthSpace  BerthTime
//	Rowing     R       0.5         1
//	Motor      M       1           3
//	Sailing    S       2           4
//	Catamaran  K       3           3
//	Cargo      L       4           6
//
// Boats are validated at construction; out-of-range arguments produce an
// errors.ValidationError. Identity codes have the form "{prefix}-{ABC}" and
// compare case-insensitively.
package boat
