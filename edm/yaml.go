package edm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture documents mirror the EDM4hep column names so that a dump of a
// real file can be pasted in with light editing:
//
//	events:
//	  - particles:
//	      - {pdg: 11, energy: 10, momentum: {z: 10}, daughters: [1, 2]}
//	      - {pdg: 22, energy: 5, parents: [0, 1]}
//	    trackerHits:
//	      - {cellID: 7, eDep: 0.001, particle: 1}
//
// Ranges are written as [begin, end) pairs; an omitted range is empty.
// Bounds are NOT checked here: malformed ranges must survive decoding so
// that graph construction can reject them.

type fixtureDoc struct {
	Events []eventDoc `yaml:"events"`
}

type eventDoc struct {
	Particles         []particleDoc     `yaml:"particles"`
	TrackerHits       []trackerHitDoc   `yaml:"trackerHits"`
	CaloHits          []caloHitDoc      `yaml:"caloHits"`
	CaloContributions []contributionDoc `yaml:"caloContributions"`
}

type vectorDoc struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v vectorDoc) vector() Vector3 { return Vector3{X: v.X, Y: v.Y, Z: v.Z} }

type particleDoc struct {
	PDG             int32     `yaml:"pdg"`
	GeneratorStatus int32     `yaml:"generatorStatus"`
	SimulatorStatus int32     `yaml:"simulatorStatus"`
	Charge          float32   `yaml:"charge"`
	Mass            float64   `yaml:"mass"`
	Momentum        vectorDoc `yaml:"momentum"`
	Energy          float64   `yaml:"energy"`
	Vertex          vectorDoc `yaml:"vertex"`
	Endpoint        vectorDoc `yaml:"endpoint"`
	Time            float32   `yaml:"time"`
	Parents         []int     `yaml:"parents,flow"`
	Daughters       []int     `yaml:"daughters,flow"`
}

type trackerHitDoc struct {
	CellID     uint64    `yaml:"cellID"`
	EDep       float32   `yaml:"eDep"`
	Time       float32   `yaml:"time"`
	PathLength float32   `yaml:"pathLength"`
	Position   vectorDoc `yaml:"position"`
	Particle   int       `yaml:"particle"`
}

type caloHitDoc struct {
	CellID   uint64    `yaml:"cellID"`
	Energy   float32   `yaml:"energy"`
	Position vectorDoc `yaml:"position"`
	Particle int       `yaml:"particle"`
}

type contributionDoc struct {
	PDG          int32     `yaml:"pdg"`
	Energy       float32   `yaml:"energy"`
	Time         float32   `yaml:"time"`
	StepPosition vectorDoc `yaml:"stepPosition"`
	Particle     int       `yaml:"particle"`
}

// DecodeYAML reads a fixture document from r and returns its events as a
// MemorySource.
func DecodeYAML(r io.Reader) (*MemorySource, error) {
	var doc fixtureDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewMemorySource()
		}
		return nil, fmt.Errorf("%w: %v", ErrBadFixture, err)
	}

	events := make([]*Event, 0, len(doc.Events))
	for i := range doc.Events {
		ev, err := doc.Events[i].event()
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", ErrBadFixture, i, err)
		}
		events = append(events, ev)
	}
	return NewMemorySource(events...)
}

// LoadYAMLFile decodes the fixture stored at path.
func LoadYAMLFile(path string) (*MemorySource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("edm: LoadYAMLFile: %w", err)
	}
	return DecodeYAML(bytes.NewReader(raw))
}

func (d *eventDoc) event() (*Event, error) {
	ev := &Event{
		Particles:         make([]Particle, len(d.Particles)),
		TrackerHits:       make([]TrackerHit, len(d.TrackerHits)),
		CaloHits:          make([]CaloHit, len(d.CaloHits)),
		CaloContributions: make([]CaloContribution, len(d.CaloContributions)),
	}
	for i, p := range d.Particles {
		parents, err := rangeOf(p.Parents)
		if err != nil {
			return nil, fmt.Errorf("particle %d parents: %w", i, err)
		}
		daughters, err := rangeOf(p.Daughters)
		if err != nil {
			return nil, fmt.Errorf("particle %d daughters: %w", i, err)
		}
		ev.Particles[i] = Particle{
			Index:           i,
			PDG:             p.PDG,
			GeneratorStatus: p.GeneratorStatus,
			SimulatorStatus: p.SimulatorStatus,
			Charge:          p.Charge,
			Mass:            p.Mass,
			Momentum:        p.Momentum.vector(),
			Energy:          p.Energy,
			Vertex:          p.Vertex.vector(),
			Endpoint:        p.Endpoint.vector(),
			Time:            p.Time,
			Parents:         parents,
			Daughters:       daughters,
		}
	}
	for i, h := range d.TrackerHits {
		ev.TrackerHits[i] = TrackerHit{
			Index:      i,
			CellID:     h.CellID,
			EDep:       h.EDep,
			Time:       h.Time,
			PathLength: h.PathLength,
			Position:   h.Position.vector(),
			Particle:   h.Particle,
		}
	}
	for i, h := range d.CaloHits {
		ev.CaloHits[i] = CaloHit{
			Index:    i,
			CellID:   h.CellID,
			Energy:   h.Energy,
			Position: h.Position.vector(),
			Particle: h.Particle,
		}
	}
	for i, c := range d.CaloContributions {
		ev.CaloContributions[i] = CaloContribution{
			Index:        i,
			PDG:          c.PDG,
			Energy:       c.Energy,
			Time:         c.Time,
			StepPosition: c.StepPosition.vector(),
			Particle:     c.Particle,
		}
	}
	return ev, nil
}

func rangeOf(pair []int) (Range, error) {
	switch len(pair) {
	case 0:
		return Range{}, nil
	case 2:
		return Range{Begin: pair[0], End: pair[1]}, nil
	default:
		return Range{}, fmt.Errorf("range needs [begin, end], got %d values", len(pair))
	}
}
