// Package ident unifies the per-collection local indices of one loaded
// event into a single identifier namespace.
//
// An ID packs three fields into a uint64:
//
//	bits 63..40  generation (process-unique, one per Resolver)
//	bits 39..32  collection kind (edm.Kind)
//	bits 31..0   local index
//
// Resolve and Reverse are O(1) and pure. The generation makes ids from a
// reloaded event distinct from ids issued for an earlier load of the same
// event, so stale ids fail with ErrUnknownIdentifier instead of silently
// aliasing new records.
package ident

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/katalvlaran/decaytree/edm"
)

// ErrUnknownIdentifier indicates an id or (kind, index) pair that does not
// resolve in the current namespace or view.
var ErrUnknownIdentifier = errors.New("ident: unknown identifier")

const (
	indexBits = 32
	kindBits  = 8
	genShift  = indexBits + kindBits
	indexMask = 1<<indexBits - 1
	kindMask  = 1<<kindBits - 1
	maxGen    = 1<<(64-genShift) - 1
)

// ID is a global identifier, unique across all four collections of one
// loaded event. The zero ID is never issued.
type ID uint64

// Generation returns the resolver generation encoded in id.
func (id ID) Generation() uint32 { return uint32(uint64(id) >> genShift) }

// Kind returns the collection kind encoded in id.
func (id ID) Kind() edm.Kind { return edm.Kind(uint64(id) >> indexBits & kindMask) }

// Local returns the local index encoded in id.
func (id ID) Local() int { return int(uint64(id) & indexMask) }

// String renders id as "<collection>#<index>@g<generation>".
func (id ID) String() string {
	if id == 0 {
		return "ident.ID(0)"
	}
	return fmt.Sprintf("%s#%d@g%d", id.Kind(), id.Local(), id.Generation())
}

var generations atomic.Uint32

// Resolver issues and reverses ids for one loaded event.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	gen   uint32
	sizes edm.Sizes
}

// NewResolver returns a Resolver for collections of the given sizes with a
// fresh generation.
func NewResolver(sizes edm.Sizes) *Resolver {
	gen := generations.Add(1) & maxGen
	if gen == 0 {
		// wrapped around; skip the zero generation so ID(0) stays invalid
		gen = generations.Add(1) & maxGen
	}
	return &Resolver{gen: gen, sizes: sizes}
}

// ForEvent is shorthand for NewResolver(ev.Sizes()).
func ForEvent(ev *edm.Event) *Resolver { return NewResolver(ev.Sizes()) }

// Generation returns the generation stamped into every id r issues.
func (r *Resolver) Generation() uint32 { return r.gen }

// Size returns the number of records of kind k.
func (r *Resolver) Size(k edm.Kind) int { return r.sizes.Of(k) }

// Resolve maps (kind, local index) to its global id.
func (r *Resolver) Resolve(kind edm.Kind, local int) (ID, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: invalid kind %d", ErrUnknownIdentifier, uint8(kind))
	}
	if local < 0 || local >= r.sizes[kind] || uint64(local) > indexMask {
		return 0, fmt.Errorf("%w: %s index %d out of range [0,%d)",
			ErrUnknownIdentifier, kind, local, r.sizes[kind])
	}
	return r.pack(kind, local), nil
}

// MustResolve is Resolve for callers that already checked bounds.
// It panics on an unresolvable pair.
func (r *Resolver) MustResolve(kind edm.Kind, local int) ID {
	id, err := r.Resolve(kind, local)
	if err != nil {
		panic(err)
	}
	return id
}

// Reverse maps a global id back to its (kind, local index) pair.
func (r *Resolver) Reverse(id ID) (edm.Kind, int, error) {
	if id.Generation() != r.gen {
		return 0, 0, fmt.Errorf("%w: %v belongs to generation %d, not %d",
			ErrUnknownIdentifier, id, id.Generation(), r.gen)
	}
	kind, local := id.Kind(), id.Local()
	if !kind.Valid() || local >= r.sizes[kind] {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnknownIdentifier, id)
	}
	return kind, local, nil
}

// Expect reverses id and additionally checks that it names a record of
// kind want.
func (r *Resolver) Expect(id ID, want edm.Kind) (int, error) {
	kind, local, err := r.Reverse(id)
	if err != nil {
		return 0, err
	}
	if kind != want {
		return 0, fmt.Errorf("%w: %v is not a %s id", ErrUnknownIdentifier, id, want)
	}
	return local, nil
}

func (r *Resolver) pack(kind edm.Kind, local int) ID {
	return ID(uint64(r.gen)<<genShift | uint64(kind)<<indexBits | uint64(local))
}
