// Package analysis wires the identifier resolver, decay graph and hit
// association index of one event behind a single query surface, and runs
// that pipeline over many events in parallel.
//
// An Event owns one snapshot (decay.View plus the assoc.Index built against
// it). Queries read the snapshot under a read lock; ProcessDecayTree holds
// the write lock while it builds the collapsed view and its index and then
// publishes both, so readers never see a view paired with a stale index.
//
// A Processor loads events from an edm.Source with a bounded errgroup.
// Structural errors are fatal for the affected event only.
package analysis
