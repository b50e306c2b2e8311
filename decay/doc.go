// SPDX-License-Identifier: MIT

// Package decay turns the flat parent/daughter index ranges of an event's
// particle collection into an explicit decay forest, and serves ancestor,
// descendant and collapse queries over it.
//
// What:
//
//   - Build: expands every Daughters and Parents range into edges, rejects
//     out-of-bounds ranges (ErrMalformedRange) and cycles, including self
//     reference (ErrCyclicAncestry), and returns an immutable Adjacency.
//     Particles with several parents are tolerated.
//   - Collapse: a pure function from (Adjacency, energies, threshold) to a
//     new Adjacency in which every non-root particle with E < threshold is
//     removed and its children are re-linked to their nearest surviving
//     ancestors. Roots always survive.
//   - View: an immutable, id-addressed snapshot (raw or collapsed) with
//     Ancestors, Descendants, Parents, Children, Roots, Leaves and the
//     Representative mapping used to re-attribute hits.
//   - Handler: owns the original View and the current one. ProcessDecayTree
//     always recomputes from the original, so the result depends only on
//     the threshold and never on earlier calls.
//
// Ordering:
//
//   - Adjacency lists are sorted by local index and free of duplicates.
//   - Ancestors are nearest-first; ancestors at the same distance come in
//     ascending id order. For multi-parent particles this tie-break is a
//     convention, not physics.
//   - Descendants are returned in ascending id order (set semantics).
//
// Complexity:
//
//   - Build:            Time O(V + E log E), Memory O(V + E)
//   - Collapse:         Time O(V + E·A) where A bounds the number of
//     surviving ancestors reachable through a collapsed chain (1 for trees)
//   - Ancestors/Descendants: Time O(V + E) worst case, Memory O(V)
//
// Errors:
//
//   - ErrMalformedRange     parent/daughter range outside the collection
//   - ErrCyclicAncestry     a particle is its own ancestor
//   - ErrInvalidThreshold   negative, NaN or infinite threshold
//   - ErrResolverMismatch   resolver and particle slice disagree in size
//   - ident.ErrUnknownIdentifier  id not present in the queried view
//
// Concurrency:
//
//   - Adjacency and View are immutable and safe for any number of readers.
//   - Handler guards the current View pointer with a sync.RWMutex;
//     ProcessDecayTree is the only writer.
package decay
