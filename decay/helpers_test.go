package decay_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/decaytree/decay"
	"github.com/katalvlaran/decaytree/edm"
	"github.com/katalvlaran/decaytree/ident"
)

func newRand(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// newHandler builds a Handler for ev with a fresh resolver.
func newHandler(t testing.TB, ev *edm.Event) (*decay.Handler, *ident.Resolver) {
	t.Helper()
	res := ident.ForEvent(ev)
	h, err := decay.NewHandler(res, ev.Particles)
	require.NoError(t, err)
	return h, res
}

// pid resolves particle local indices to ids.
func pid(res *ident.Resolver, locals ...int) []ident.ID {
	out := make([]ident.ID, len(locals))
	for k, i := range locals {
		out[k] = res.MustResolve(edm.Particles, i)
	}
	return out
}

// locals maps ids back to local indices for readable assertions.
func locals(ids []ident.ID) []int {
	out := make([]int, len(ids))
	for k, id := range ids {
		out[k] = id.Local()
	}
	return out
}

func energies(ev *edm.Event) func(int) float64 {
	return func(i int) float64 { return ev.Particles[i].E() }
}
