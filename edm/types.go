// SPDX-License-Identifier: MIT

package edm

import (
	"errors"
	"fmt"

	"go-hep.org/x/hep/fmom"
)

// Sentinel errors for event access.
var (
	// ErrEventNotFound indicates an event index outside the source.
	ErrEventNotFound = errors.New("edm: event not found")

	// ErrNilEvent indicates a nil *Event was supplied.
	ErrNilEvent = errors.New("edm: event is nil")

	// ErrBadFixture indicates a fixture document that cannot be decoded.
	ErrBadFixture = errors.New("edm: bad fixture")
)

// Kind tags one of the four per-event collections.
type Kind uint8

// Collection kinds. The zero value is invalid so that an uninitialised
// Kind never aliases a real collection.
const (
	Particles Kind = iota + 1
	TrackerHits
	CaloHits
	CaloContributions
)

// KindCount is the number of valid kinds; arrays indexed by Kind use
// KindCount+1 slots so that Kind values index them directly.
const KindCount = 4

// Kinds lists every valid kind in declaration order.
var Kinds = [KindCount]Kind{Particles, TrackerHits, CaloHits, CaloContributions}

// HitKinds lists the kinds whose records reference a particle.
var HitKinds = [3]Kind{TrackerHits, CaloHits, CaloContributions}

// Valid reports whether k names a real collection.
func (k Kind) Valid() bool { return k >= Particles && k <= CaloContributions }

// String returns the EDM4hep-style collection name.
func (k Kind) String() string {
	switch k {
	case Particles:
		return "MCParticles"
	case TrackerHits:
		return "SimTrackerHits"
	case CaloHits:
		return "SimCalorimeterHits"
	case CaloContributions:
		return "CaloHitContributions"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Range is a half-open [Begin, End) interval of local particle indices.
// Begin == End denotes the empty range.
type Range struct {
	Begin int
	End   int
}

// Len returns the number of indices in r; malformed ranges report 0.
func (r Range) Len() int {
	if r.End <= r.Begin {
		return 0
	}
	return r.End - r.Begin
}

// Empty reports whether r covers no index.
func (r Range) Empty() bool { return r.Len() == 0 }

// Within reports whether r is well formed for a collection of size n.
// The empty range {0,0} is always within bounds.
func (r Range) Within(n int) bool {
	return r.Begin >= 0 && r.End >= r.Begin && r.End <= n
}

// Inclusive converts an inclusive (first, last) pair into a Range.
// last < first yields an empty range starting at first.
func Inclusive(first, last int) Range {
	if last < first {
		return Range{Begin: first, End: first}
	}
	return Range{Begin: first, End: last + 1}
}

// Simulator status bits, as assigned by EDM4hep.
const (
	BitOverlay                     = 23
	BitStopped                     = 24
	BitLeftDetector                = 25
	BitDecayedInCalorimeter        = 26
	BitDecayedInTracker            = 27
	BitVertexIsNotEndpointOfParent = 28
	BitBackscatter                 = 29
	BitCreatedInSimulation         = 30
)

// Vector3 is a plain three-vector (positions, vertices, momenta at a step).
type Vector3 struct {
	X, Y, Z float64
}

// Particle is one row of the MCParticles collection.
type Particle struct {
	Index           int
	PDG             int32
	GeneratorStatus int32
	SimulatorStatus int32
	Charge          float32
	Mass            float64
	Momentum        Vector3
	Energy          float64
	Vertex          Vector3
	Endpoint        Vector3
	Time            float32
	Parents         Range
	Daughters       Range
}

// P4 returns the particle four-momentum.
func (p *Particle) P4() fmom.PxPyPzE {
	return fmom.NewPxPyPzE(p.Momentum.X, p.Momentum.Y, p.Momentum.Z, p.Energy)
}

// E returns the particle energy, the quantity collapse thresholds apply to.
func (p *Particle) E() float64 { return p.Energy }

// Pt returns the transverse momentum.
func (p *Particle) Pt() float64 {
	p4 := p.P4()
	return p4.Pt()
}

// Eta returns the pseudo-rapidity.
func (p *Particle) Eta() float64 {
	p4 := p.P4()
	return p4.Eta()
}

// Phi returns the azimuthal angle.
func (p *Particle) Phi() float64 {
	p4 := p.P4()
	return p4.Phi()
}

// M returns the invariant mass computed from the four-momentum.
func (p *Particle) M() float64 {
	p4 := p.P4()
	return p4.M()
}

func (p *Particle) simBit(bit uint) bool { return p.SimulatorStatus&(1<<bit) != 0 }

// CreatedInSimulation reports whether the detector simulation produced p.
func (p *Particle) CreatedInSimulation() bool { return p.simBit(BitCreatedInSimulation) }

// Backscatter reports whether p was backscattered from a calorimeter.
func (p *Particle) Backscatter() bool { return p.simBit(BitBackscatter) }

// VertexIsNotEndpointOfParent reports whether p was produced away from its
// parent's endpoint.
func (p *Particle) VertexIsNotEndpointOfParent() bool {
	return p.simBit(BitVertexIsNotEndpointOfParent)
}

// DecayedInTracker reports whether p decayed inside the tracking region.
func (p *Particle) DecayedInTracker() bool { return p.simBit(BitDecayedInTracker) }

// DecayedInCalorimeter reports whether p decayed inside a calorimeter.
func (p *Particle) DecayedInCalorimeter() bool { return p.simBit(BitDecayedInCalorimeter) }

// HasLeftDetector reports whether p left the world volume.
func (p *Particle) HasLeftDetector() bool { return p.simBit(BitLeftDetector) }

// Stopped reports whether p was stopped by the simulation.
func (p *Particle) Stopped() bool { return p.simBit(BitStopped) }

// OverlayParticle reports whether p comes from an overlaid event.
func (p *Particle) OverlayParticle() bool { return p.simBit(BitOverlay) }

// TrackerHit is one row of the SimTrackerHits collection.
type TrackerHit struct {
	Index      int
	CellID     uint64
	EDep       float32
	Time       float32
	PathLength float32
	Position   Vector3
	Particle   int
}

// CaloHit is one row of the SimCalorimeterHits collection.
type CaloHit struct {
	Index    int
	CellID   uint64
	Energy   float32
	Position Vector3
	Particle int
}

// CaloContribution is one row of the CaloHitContributions collection.
type CaloContribution struct {
	Index        int
	PDG          int32
	Energy       float32
	Time         float32
	StepPosition Vector3
	Particle     int
}

// Sizes holds per-kind collection lengths, indexed by Kind.
type Sizes [KindCount + 1]int

// Of returns the size recorded for k, or 0 for an invalid kind.
func (s Sizes) Of(k Kind) int {
	if !k.Valid() {
		return 0
	}
	return s[k]
}

// Event is one simulated collision: four flat collections addressed by
// local 0-based position.
type Event struct {
	Index             int
	Particles         []Particle
	TrackerHits       []TrackerHit
	CaloHits          []CaloHit
	CaloContributions []CaloContribution
}

// Sizes reports the length of every collection in ev.
func (ev *Event) Sizes() Sizes {
	var s Sizes
	s[Particles] = len(ev.Particles)
	s[TrackerHits] = len(ev.TrackerHits)
	s[CaloHits] = len(ev.CaloHits)
	s[CaloContributions] = len(ev.CaloContributions)
	return s
}

// OriginOf returns the raw originating-particle local index of record i in
// hit collection k. ok is false when k is not a hit kind or i is out of
// range.
func (ev *Event) OriginOf(k Kind, i int) (particle int, ok bool) {
	switch k {
	case TrackerHits:
		if i >= 0 && i < len(ev.TrackerHits) {
			return ev.TrackerHits[i].Particle, true
		}
	case CaloHits:
		if i >= 0 && i < len(ev.CaloHits) {
			return ev.CaloHits[i].Particle, true
		}
	case CaloContributions:
		if i >= 0 && i < len(ev.CaloContributions) {
			return ev.CaloContributions[i].Particle, true
		}
	}
	return 0, false
}
