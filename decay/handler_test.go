package decay_test

import (
	"bytes"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/decaytree/decay"
	"github.com/katalvlaran/decaytree/edm"
	"github.com/katalvlaran/decaytree/edm/edmtest"
	"github.com/katalvlaran/decaytree/ident"
)

// HandlerSuite exercises the raw/collapsed state machine on the diamond.
type HandlerSuite struct {
	suite.Suite
	ev  *edm.Event
	res *ident.Resolver
	h   *decay.Handler
}

func (s *HandlerSuite) SetupTest() {
	s.ev = edmtest.Diamond()
	s.h, s.res = newHandler(s.T(), s.ev)
}

func (s *HandlerSuite) id(i int) ident.ID { return pid(s.res, i)[0] }

func (s *HandlerSuite) TestInitialStateIsRaw() {
	s.Equal(decay.State{}, s.h.State())
	s.Equal("Raw", s.h.State().String())
	s.Same(s.h.Original(), s.h.View())
}

func (s *HandlerSuite) TestProcessDecayTree() {
	v, err := s.h.ProcessDecayTree(0.05)
	s.Require().NoError(err)

	s.True(v.Collapsed())
	s.Equal(0.05, v.Threshold())
	s.Equal(2, v.Removed())
	s.Equal("Collapsed(0.05)", s.h.State().String())
	s.Equal([]int{0, 2, 3, 5, 6}, locals(v.Survivors()))

	anc, err := s.h.Ancestors(s.id(5))
	s.Require().NoError(err)
	s.Equal([]int{3, 0, 2}, locals(anc))

	anc, err = s.h.Ancestors(s.id(3))
	s.Require().NoError(err)
	s.Equal([]int{0, 2}, locals(anc))

	desc, err := s.h.Descendants(s.id(0))
	s.Require().NoError(err)
	s.Equal([]int{2, 3, 5}, locals(desc))
}

func (s *HandlerSuite) TestCollapsedParticleIsUnknown() {
	_, err := s.h.ProcessDecayTree(0.05)
	s.Require().NoError(err)

	_, err = s.h.Ancestors(s.id(1))
	s.ErrorIs(err, ident.ErrUnknownIdentifier)
	_, err = s.h.Descendants(s.id(4))
	s.ErrorIs(err, ident.ErrUnknownIdentifier)

	// but still addressable for attribution
	v := s.h.View()
	gone, err := v.IsCollapsed(s.id(4))
	s.Require().NoError(err)
	s.True(gone)

	rep, err := v.Representative(s.id(4))
	s.Require().NoError(err)
	s.Equal(3, rep.Local())
	rep, err = v.Representative(s.id(1))
	s.Require().NoError(err)
	s.Equal(0, rep.Local())

	eff, err := v.EffectiveParents(s.id(4))
	s.Require().NoError(err)
	s.Equal([]int{3}, locals(eff))
	eff, err = v.EffectiveParents(s.id(3))
	s.Require().NoError(err)
	s.Equal([]int{0, 2}, locals(eff))
}

func (s *HandlerSuite) TestSameThresholdReturnsCurrent() {
	first, err := s.h.ProcessDecayTree(0.05)
	s.Require().NoError(err)
	second, err := s.h.ProcessDecayTree(0.05)
	s.Require().NoError(err)
	s.Same(first, second)
}

func (s *HandlerSuite) TestRecomputesFromOriginal() {
	_, err := s.h.ProcessDecayTree(0.05)
	s.Require().NoError(err)

	// a lower threshold must bring particle 4 back
	v, err := s.h.ProcessDecayTree(0.02)
	s.Require().NoError(err)
	s.True(v.Contains(s.id(4)))
	s.False(v.Contains(s.id(1)))
	s.Equal(1, v.Removed())

	s.False(s.h.Original().Collapsed())
	s.Equal(7, s.h.Original().Len())
}

func (s *HandlerSuite) TestInvalidThresholdKeepsState() {
	_, err := s.h.ProcessDecayTree(0.05)
	s.Require().NoError(err)
	before := s.h.View()

	for _, th := range []float64{-1, math.NaN(), math.Inf(1)} {
		v, err := s.h.ProcessDecayTree(th)
		s.ErrorIs(err, decay.ErrInvalidThreshold)
		s.Nil(v)
	}
	s.Same(before, s.h.View())
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

// TestNewHandler_Errors covers resolver mismatch and structural failures.
func TestNewHandler_Errors(t *testing.T) {
	ev := edmtest.Chain()

	_, err := decay.NewHandler(nil, ev.Particles)
	assert.ErrorIs(t, err, decay.ErrResolverMismatch)

	_, err = decay.NewHandler(ident.ForEvent(edmtest.Diamond()), ev.Particles)
	assert.ErrorIs(t, err, decay.ErrResolverMismatch)

	ev.Particles[2].Daughters = edm.Range{Begin: 0, End: 1} // B -> root closes a loop
	h, err := decay.NewHandler(ident.ForEvent(ev), ev.Particles)
	assert.ErrorIs(t, err, decay.ErrCyclicAncestry)
	assert.Nil(t, h)
}

// TestHandler_Logs checks that build and collapse report through the
// configured logger.
func TestHandler_Logs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ev := edmtest.Diamond()
	h, err := decay.NewHandler(ident.ForEvent(ev), ev.Particles, decay.WithLogger(log))
	require.NoError(t, err)
	_, err = h.ProcessDecayTree(0.05)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "decay graph built")
	assert.Contains(t, out, "multi_parent=1")
	assert.Contains(t, out, "decay tree collapsed")
	assert.Contains(t, out, "collapsed=2")
}

// TestHandler_ConcurrentReaders runs queries while the writer flips
// between two thresholds. Every answer must match one complete snapshot.
func TestHandler_ConcurrentReaders(t *testing.T) {
	ev := edmtest.Diamond()
	h, res := newHandler(t, ev)
	target := pid(res, 5)[0]

	raw := []int{4, 3, 1, 2, 0}  // threshold 0.001: nothing removed
	collapsed := []int{3, 0, 2} // threshold 0.05

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				anc, err := h.Ancestors(target)
				if err != nil {
					t.Errorf("ancestors: %v", err)
					return
				}
				got := locals(anc)
				if !assert.ObjectsAreEqual(raw, got) && !assert.ObjectsAreEqual(collapsed, got) {
					t.Errorf("torn read: %v", got)
					return
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		th := 0.001
		if i%2 == 0 {
			th = 0.05
		}
		_, err := h.ProcessDecayTree(th)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}
