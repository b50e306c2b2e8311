// SPDX-License-Identifier: MIT

// Package edm defines the flat, index-based event records consumed by the
// decay-graph engine: particles, tracker hits, calorimeter hits and
// calorimeter contributions, laid out the way EDM4hep stores them.
//
// What:
//
//   - Particle carries a PDG code, status words, a four-momentum and two
//     half-open ranges (Parents, Daughters) into the same event's particle
//     collection. The tree is implicit; package decay makes it explicit.
//   - TrackerHit, CaloHit and CaloContribution each reference their
//     originating particle by local index.
//   - Event groups the four collections of one simulated collision.
//   - Source is the read-only access contract a loader must satisfy.
//     MemorySource and the YAML fixture decoder are the in-tree
//     implementations.
//
// Errors:
//
//   - ErrEventNotFound  requested event index is outside the source.
//   - ErrNilEvent       a nil *Event was supplied.
//   - ErrBadFixture     a YAML fixture could not be decoded.
//
// Records are plain values; nothing in this package mutates them after
// construction.
package edm
