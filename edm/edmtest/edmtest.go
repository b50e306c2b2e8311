// Package edmtest provides small, deterministic events for tests and
// examples of the decay-graph packages.
package edmtest

import (
	"math/rand"

	"github.com/katalvlaran/decaytree/edm"
)

// Energies of the three-particle chain returned by Chain.
const (
	ChainRootE = 10.0
	ChainAE    = 0.02
	ChainBE    = 5.0
)

// Local particle indices of the chain.
const (
	ChainRoot = 0
	ChainA    = 1
	ChainB    = 2
)

// Particle returns a particle at rest along z with energy e.
func Particle(index int, e float64, parents, daughters edm.Range) edm.Particle {
	return edm.Particle{
		Index:     index,
		PDG:       22,
		Momentum:  edm.Vector3{Z: e},
		Energy:    e,
		Parents:   parents,
		Daughters: daughters,
	}
}

// Chain returns root(E=10) → A(E=0.02) → B(E=5) with:
//
//	tracker hit 0 → A, tracker hit 1 → B
//	calo hit 0 → A
//	contribution 0 → A (0.25), contribution 1 → B (1.5), contribution 2 → root (0.5)
func Chain() *edm.Event {
	return &edm.Event{
		Particles: []edm.Particle{
			Particle(ChainRoot, ChainRootE, edm.Range{}, edm.Range{Begin: 1, End: 2}),
			Particle(ChainA, ChainAE, edm.Range{Begin: 0, End: 1}, edm.Range{Begin: 2, End: 3}),
			Particle(ChainB, ChainBE, edm.Range{Begin: 1, End: 2}, edm.Range{}),
		},
		TrackerHits: []edm.TrackerHit{
			{Index: 0, CellID: 100, EDep: 0.001, Particle: ChainA},
			{Index: 1, CellID: 101, EDep: 0.002, Particle: ChainB},
		},
		CaloHits: []edm.CaloHit{
			{Index: 0, CellID: 200, Energy: 0.25, Particle: ChainA},
		},
		CaloContributions: []edm.CaloContribution{
			{Index: 0, PDG: 22, Energy: 0.25, Particle: ChainA},
			{Index: 1, PDG: 22, Energy: 1.5, Particle: ChainB},
			{Index: 2, PDG: 11, Energy: 0.5, Particle: ChainRoot},
		},
	}
}

// Diamond returns a forest with a multi-parent particle:
//
//	0(E=50) ─┬─ 1(E=0.01) ─┐
//	         └─ 2(E=20) ───┴─ 3(E=8) ── 4(E=0.03) ── 5(E=2)
//	6(E=0.001)                               (second root)
//
// Particle 3 lists both 1 and 2 as parents; 4 is sub-threshold at 0.05.
func Diamond() *edm.Event {
	return &edm.Event{
		Particles: []edm.Particle{
			Particle(0, 50, edm.Range{}, edm.Range{Begin: 1, End: 3}),
			Particle(1, 0.01, edm.Range{Begin: 0, End: 1}, edm.Range{Begin: 3, End: 4}),
			Particle(2, 20, edm.Range{Begin: 0, End: 1}, edm.Range{Begin: 3, End: 4}),
			Particle(3, 8, edm.Range{Begin: 1, End: 3}, edm.Range{Begin: 4, End: 5}),
			Particle(4, 0.03, edm.Range{Begin: 3, End: 4}, edm.Range{Begin: 5, End: 6}),
			Particle(5, 2, edm.Range{Begin: 4, End: 5}, edm.Range{}),
			Particle(6, 0.001, edm.Range{}, edm.Range{}),
		},
		TrackerHits: []edm.TrackerHit{
			{Index: 0, Particle: 1},
			{Index: 1, Particle: 4},
			{Index: 2, Particle: 6},
		},
		CaloContributions: []edm.CaloContribution{
			{Index: 0, Energy: 1, Particle: 4},
			{Index: 1, Energy: 2, Particle: 5},
		},
	}
}

// RandomForest returns an event with n particles spread over the given
// number of roots (at least 1). Particles are numbered breadth-first so
// that every particle's children occupy one contiguous daughter range, as
// in generator output. Energies are drawn from [0, 1) · 10^k for k in
// {-3..1}, and hits, calo hits and contributions reference random
// particles.
func RandomForest(rng *rand.Rand, n, roots, hits int) *edm.Event {
	if roots < 1 {
		roots = 1
	}
	if roots > n {
		roots = n
	}
	ps := make([]edm.Particle, n)
	for i := 0; i < roots; i++ {
		ps[i] = Particle(i, energy(rng), edm.Range{}, edm.Range{})
	}

	// Breadth-first assignment: parent q takes the next k unassigned
	// indices as children.
	next := roots
	for q := 0; q < next && next < n; q++ {
		k := rng.Intn(4)
		if next+k > n {
			k = n - next
		}
		ps[q].Daughters = edm.Range{Begin: next, End: next + k}
		for c := next; c < next+k; c++ {
			ps[c] = Particle(c, energy(rng), edm.Range{Begin: q, End: q + 1}, edm.Range{})
		}
		next += k
	}
	// any index never reached becomes an extra root
	for c := next; c < n; c++ {
		ps[c] = Particle(c, energy(rng), edm.Range{}, edm.Range{})
	}

	ev := &edm.Event{Particles: ps}
	for h := 0; h < hits; h++ {
		ev.TrackerHits = append(ev.TrackerHits, edm.TrackerHit{Index: h, Particle: rng.Intn(n)})
		ev.CaloHits = append(ev.CaloHits, edm.CaloHit{Index: h, Particle: rng.Intn(n)})
		ev.CaloContributions = append(ev.CaloContributions, edm.CaloContribution{
			Index:    h,
			Energy:   float32(rng.Intn(1000)) / 100,
			Particle: rng.Intn(n),
		})
	}
	return ev
}

func energy(rng *rand.Rand) float64 {
	scale := []float64{0.001, 0.01, 0.1, 1, 10}[rng.Intn(5)]
	return rng.Float64() * scale
}
