package assoc_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/decaytree/assoc"
	"github.com/katalvlaran/decaytree/decay"
	"github.com/katalvlaran/decaytree/edm"
	"github.com/katalvlaran/decaytree/edm/edmtest"
	"github.com/katalvlaran/decaytree/ident"
)

func handler(t *testing.T, ev *edm.Event) (*decay.Handler, *ident.Resolver) {
	t.Helper()
	res := ident.ForEvent(ev)
	h, err := decay.NewHandler(res, ev.Particles)
	require.NoError(t, err)
	return h, res
}

func newRand(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

func locals(ids []ident.ID) []int {
	out := make([]int, len(ids))
	for k, id := range ids {
		out[k] = id.Local()
	}
	return out
}

// TestIndex_Raw checks attribution to the original particles.
func TestIndex_Raw(t *testing.T) {
	ev := edmtest.Chain()
	h, res := handler(t, ev)
	ix, err := assoc.Build(ev, h.View())
	require.NoError(t, err)

	a := res.MustResolve(edm.Particles, edmtest.ChainA)
	hits, err := ix.TrackerHitsOf(a)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, locals(hits))

	calo, err := ix.CaloHitsOf(a)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, locals(calo))

	origin, err := ix.OriginatingParticle(res.MustResolve(edm.TrackerHits, 1))
	require.NoError(t, err)
	assert.Equal(t, edmtest.ChainB, origin.Local())

	e, err := ix.DepositedEnergy(a)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, e, 1e-9)

	assert.Equal(t, 2, ix.Len(edm.TrackerHits))
	assert.Equal(t, 0, ix.Len(edm.Kind(0)))
	assert.Same(t, h.View(), ix.View())
}

// TestIndex_CollapseReattributes: hits of the removed middle particle move
// to the root, deposits included.
func TestIndex_CollapseReattributes(t *testing.T) {
	ev := edmtest.Chain()
	h, res := handler(t, ev)
	v, err := h.ProcessDecayTree(0.05)
	require.NoError(t, err)
	ix, err := assoc.Build(ev, v)
	require.NoError(t, err)

	root := res.MustResolve(edm.Particles, edmtest.ChainRoot)
	b := res.MustResolve(edm.Particles, edmtest.ChainB)

	for _, kind := range []edm.Kind{edm.TrackerHits, edm.CaloHits} {
		origin, err := ix.OriginatingParticle(res.MustResolve(kind, 0))
		require.NoError(t, err)
		assert.Equal(t, root, origin, kind.String())
	}

	hits, err := ix.TrackerHitsOf(root)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, locals(hits))

	contrib, err := ix.ContributionsOf(root)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, locals(contrib))

	eRoot, err := ix.DepositedEnergy(root)
	require.NoError(t, err)
	eB, err := ix.DepositedEnergy(b)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, eRoot, 1e-9)
	assert.InDelta(t, 1.5, eB, 1e-9)

	assert.Equal(t, []int{edmtest.ChainRoot, edmtest.ChainB}, locals(ix.Attributed(edm.TrackerHits)))
	assert.Nil(t, ix.Attributed(edm.Kind(42)))
}

// TestIndex_MultiParentGoesToNearestSurvivor uses the diamond: hit 1 sits
// on the removed particle 4, whose only surviving ancestor at distance 1
// is 3.
func TestIndex_MultiParentGoesToNearestSurvivor(t *testing.T) {
	ev := edmtest.Diamond()
	h, res := handler(t, ev)
	v, err := h.ProcessDecayTree(0.05)
	require.NoError(t, err)
	ix, err := assoc.Build(ev, v)
	require.NoError(t, err)

	want := map[edm.Kind][]int{
		edm.TrackerHits:       {0, 3, 6},
		edm.CaloContributions: {3, 5},
	}
	for kind, particles := range want {
		for hit, p := range particles {
			origin, err := ix.OriginatingParticle(res.MustResolve(kind, hit))
			require.NoError(t, err)
			assert.Equal(t, p, origin.Local(), "%s %d", kind, hit)
		}
	}
}

// TestIndex_Conservation: every record is attributed to exactly one
// present particle and deposited energy is conserved, for raw and collapsed
// views alike.
func TestIndex_Conservation(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		ev := edmtest.RandomForest(newRand(seed), 200, 3, 120)
		var total float64
		for _, c := range ev.CaloContributions {
			total += float64(c.Energy)
		}

		h, res := handler(t, ev)
		for _, th := range []float64{0, 0.01, 0.5} {
			v, err := h.ProcessDecayTree(th)
			require.NoError(t, err)
			ix, err := assoc.Build(ev, v)
			require.NoError(t, err)

			var deposited float64
			for _, kind := range edm.HitKinds {
				seen := 0
				for _, p := range v.Survivors() {
					hits, err := ix.HitsOf(p, kind)
					require.NoError(t, err)
					seen += len(hits)
					for _, hit := range hits {
						origin, err := ix.OriginatingParticle(hit)
						require.NoError(t, err)
						require.Equal(t, p, origin)
					}
				}
				require.Equal(t, res.Size(kind), seen, "seed %d %s at %v", seed, kind, th)
			}
			for _, p := range v.Survivors() {
				e, err := ix.DepositedEnergy(p)
				require.NoError(t, err)
				deposited += e
			}
			require.InDelta(t, total, deposited, 1e-6, "seed %d at %v", seed, th)
		}
	}
}

// TestIndex_Errors covers the rejection paths.
func TestIndex_Errors(t *testing.T) {
	ev := edmtest.Chain()
	h, res := handler(t, ev)
	v, err := h.ProcessDecayTree(0.05)
	require.NoError(t, err)
	ix, err := assoc.Build(ev, v)
	require.NoError(t, err)

	a := res.MustResolve(edm.Particles, edmtest.ChainA)
	root := res.MustResolve(edm.Particles, edmtest.ChainRoot)

	_, err = ix.HitsOf(a, edm.TrackerHits)
	assert.ErrorIs(t, err, ident.ErrUnknownIdentifier, "collapsed particle")

	_, err = ix.DepositedEnergy(a)
	assert.ErrorIs(t, err, ident.ErrUnknownIdentifier)

	_, err = ix.HitsOf(root, edm.Particles)
	assert.ErrorIs(t, err, ident.ErrUnknownIdentifier, "particle kind")

	_, err = ix.OriginatingParticle(root)
	assert.ErrorIs(t, err, ident.ErrUnknownIdentifier, "particle id as hit")

	_, err = ix.HitsOf(res.MustResolve(edm.TrackerHits, 0), edm.TrackerHits)
	assert.ErrorIs(t, err, ident.ErrUnknownIdentifier, "hit id as particle")

	_, err = assoc.Build(nil, v)
	assert.ErrorIs(t, err, edm.ErrNilEvent)
}

// TestBuild_DanglingReference fails for a hit pointing outside the event.
func TestBuild_DanglingReference(t *testing.T) {
	ev := edmtest.Chain()
	ev.TrackerHits[1].Particle = 9
	h, _ := handler(t, ev)

	ix, err := assoc.Build(ev, h.View())
	require.ErrorIs(t, err, ident.ErrUnknownIdentifier)
	assert.Nil(t, ix)
}
