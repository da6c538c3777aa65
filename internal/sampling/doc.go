// Package sampling holds the probability plumbing behind corruption plans:
// smoothing raw catalog weights into a normalized distribution, drawing one
// item in proportion to its weight, and cycling through SNR pools.
//
// Every draw goes through an explicit Source so a run seeded once produces
// the same sequence of choices on every execution. Callers must keep the
// order of calls fixed; reordering draws changes every plan downstream.
package sampling
