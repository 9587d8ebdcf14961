package capture

import (
	"errors"

	"github.com/cbrackley/capC-MAP/internal/genome"
)

const (
	// within1Mb and within5Mb bound the target-reporter distance counters
	within1Mb = 1000000
	within5Mb = 5000000
)

// ErrNoTargets is returned when counters are set up before the targets are loaded
var ErrNoTargets = errors.New("attempted to setup counters before targets were loaded")

// TargetCounts are the interactions counted for one target
type TargetCounts struct {
	// ValidPairs are intrachromosomal interactions
	ValidPairs uint64

	// OnlyInter are read sets with only interchromosomal reporters
	OnlyInter uint64

	// Within1Mb and Within5Mb are the ValidPairs whose first reporter starts
	// within 1Mb or 5Mb of the target's start
	Within1Mb uint64
	Within5Mb uint64
}

// Counters tally every read set by its Outcome, globally and per target
type Counters struct {
	ReadFrags         uint64
	ReadSets          uint64
	Duplicates        uint64
	NoneMapped        uint64
	NoTargets         uint64
	MultipleTargets   uint64
	NoReporters       uint64
	Exclusion         uint64
	MultipleReporters uint64
	Interchrom        uint64
	ValidPairs        uint64

	// PerTarget is keyed by target name
	PerTarget map[string]*TargetCounts

	// names are the target names in output order
	names []string
}

// NewCounters returns zeroed counters for every target in targets
func NewCounters(targets *genome.Registry) (*Counters, error) {
	if targets == nil {
		return nil, ErrNoTargets
	}

	c := &Counters{
		PerTarget: make(map[string]*TargetCounts, targets.Len()),
		names:     targets.Names(),
	}
	for _, name := range c.names {
		c.PerTarget[name] = &TargetCounts{}
	}
	return c, nil
}

// Names are the targets being counted, sorted
func (c *Counters) Names() []string {
	return append([]string(nil), c.names...)
}

// Record the classification of a read set made of frags aligned fragments
func (c *Counters) Record(frags int, res Result) {
	c.ReadFrags += uint64(frags)
	c.ReadSets++

	switch res.Outcome {
	case NoneMapped:
		c.NoneMapped++
	case Duplicate:
		c.Duplicates++
	case NoTargets:
		c.NoTargets++
	case MultipleTargets:
		c.MultipleTargets++
	case NoReporters:
		c.NoReporters++
	case Excluded:
		c.Exclusion++
	case MultipleReporters:
		c.MultipleReporters++
	case OnlyInter:
		c.Interchrom++
		c.target(res.Target.Name).OnlyInter++
	case Valid:
		c.ValidPairs++
		tc := c.target(res.Target.Name)
		tc.ValidPairs++

		// distance from the first reporter, whichever reporter is written out
		dist := res.Reporters[0].Start - res.Target.Start
		if dist < 0 {
			dist = -dist
		}
		if dist <= within5Mb {
			tc.Within5Mb++
			if dist <= within1Mb {
				tc.Within1Mb++
			}
		}
	}
}

// target returns the counts of a target, adding it if it is new
func (c *Counters) target(name string) *TargetCounts {
	tc, ok := c.PerTarget[name]
	if !ok {
		tc = &TargetCounts{}
		c.PerTarget[name] = tc
		c.names = append(c.names, name)
	}
	return tc
}

// Remaining is the number of read sets left after removing duplicates
func (c *Counters) Remaining() uint64 {
	return c.ReadSets - c.Duplicates
}

// Interactions is the number of valid interactions, intra and interchromosomal
func (c *Counters) Interactions() uint64 {
	return c.ValidPairs + c.Interchrom
}
