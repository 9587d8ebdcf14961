package capture

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cbrackley/capC-MAP/internal/bed"
	"github.com/cbrackley/capC-MAP/internal/genome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reporter(chrom string, start, end int) genome.Fragment {
	return genome.Fragment{Interval: bed.Interval{Chrom: chrom, Start: start, End: end}}
}

func TestNewCounters(t *testing.T) {
	_, err := NewCounters(nil)
	assert.True(t, errors.Is(err, ErrNoTargets))

	_, targets := testGenome(t)
	c, err := NewCounters(targets)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, c.Names())
	assert.Len(t, c.PerTarget, 2)
}

func TestCounters_Record(t *testing.T) {
	_, targets := testGenome(t)
	alpha, _ := targets.Lookup("alpha")
	beta, _ := targets.Lookup("beta")

	c, err := NewCounters(targets)
	require.NoError(t, err)

	c.Record(2, Result{Outcome: NoneMapped})
	c.Record(3, Result{Outcome: Duplicate})
	c.Record(2, Result{Outcome: NoTargets})
	c.Record(2, Result{Outcome: MultipleTargets})
	c.Record(1, Result{Outcome: NoReporters, Target: alpha})
	c.Record(2, Result{Outcome: Excluded, Target: alpha})
	c.Record(3, Result{Outcome: MultipleReporters, Target: alpha})
	c.Record(2, Result{Outcome: OnlyInter, Target: beta, Inter: []genome.Fragment{reporter("chr3", 0, 500)}})

	// near, between 1Mb and 5Mb, and past 5Mb from alpha at 1000
	c.Record(2, Result{Outcome: Valid, Target: alpha, Reporters: []genome.Fragment{reporter("chr1", 2000, 2200)}})
	c.Record(2, Result{Outcome: Valid, Target: alpha, Reporters: []genome.Fragment{reporter("chr1", 2000000, 7000000)}})
	c.Record(2, Result{Outcome: Valid, Target: alpha, Reporters: []genome.Fragment{reporter("chr1", 7000000, 7000200)}})

	// distance runs from the first of several reporters
	c.Record(4, Result{Outcome: Valid, Target: alpha, Reporters: []genome.Fragment{
		reporter("chr1", 0, 200),
		reporter("chr1", 4000, 2000000),
		reporter("chr1", 2000000, 7000000),
	}})

	assert.Equal(t, uint64(27), c.ReadFrags)
	assert.Equal(t, uint64(12), c.ReadSets)
	assert.Equal(t, uint64(1), c.Duplicates)
	assert.Equal(t, uint64(11), c.Remaining())
	assert.Equal(t, uint64(1), c.NoneMapped)
	assert.Equal(t, uint64(1), c.NoTargets)
	assert.Equal(t, uint64(1), c.MultipleTargets)
	assert.Equal(t, uint64(1), c.NoReporters)
	assert.Equal(t, uint64(1), c.Exclusion)
	assert.Equal(t, uint64(1), c.MultipleReporters)
	assert.Equal(t, uint64(1), c.Interchrom)
	assert.Equal(t, uint64(4), c.ValidPairs)
	assert.Equal(t, uint64(5), c.Interactions())

	assert.Equal(t, TargetCounts{ValidPairs: 4, Within5Mb: 3, Within1Mb: 2}, *c.PerTarget["alpha"])
	assert.Equal(t, TargetCounts{OnlyInter: 1}, *c.PerTarget["beta"])
}

func TestCounters_InteractionCounts(t *testing.T) {
	_, targets := testGenome(t)
	alpha, _ := targets.Lookup("alpha")
	beta, _ := targets.Lookup("beta")

	c, err := NewCounters(targets)
	require.NoError(t, err)
	c.Record(2, Result{Outcome: Valid, Target: beta, Reporters: []genome.Fragment{reporter("chr2", 1000, 1200)}})
	c.Record(2, Result{Outcome: OnlyInter, Target: beta})
	c.Record(2, Result{Outcome: OnlyInter, Target: alpha})

	assert.Equal(t, []InteractionCount{
		{Name: "alpha", Intra: 0, Inter: 1, Total: 1},
		{Name: "beta", Intra: 1, Inter: 1, Total: 2, Within5Mb: 1, Within1Mb: 1},
	}, c.InteractionCounts())
}

func TestCounters_interactionCountsRoundTrip(t *testing.T) {
	_, targets := testGenome(t)
	alpha, _ := targets.Lookup("alpha")

	c, err := NewCounters(targets)
	require.NoError(t, err)
	c.Record(2, Result{Outcome: Valid, Target: alpha, Reporters: []genome.Fragment{reporter("chr1", 2000000, 7000000)}})
	c.Record(2, Result{Outcome: Valid, Target: alpha, Reporters: []genome.Fragment{reporter("chr1", 2000, 2200)}})
	c.Record(2, Result{Outcome: OnlyInter, Target: alpha})

	var buf bytes.Buffer
	require.NoError(t, c.WriteInteractionCounts(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "# target name"))
	assert.Contains(t, buf.String(), "alpha\t2\t1\t3\t2\t1\n")
	assert.Contains(t, buf.String(), "beta\t0\t0\t0\t0\t0\n")

	rows, err := ReadInteractionCounts(&buf)
	require.NoError(t, err)
	assert.Equal(t, c.InteractionCounts(), rows)
}

func TestReadInteractionCounts_errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing column", "alpha\t1\t2\t3\t4\n"},
		{"not a number", "alpha\t1\t2\tx\t4\t5\n"},
		{"negative", "alpha\t1\t2\t3\t-4\t5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInteractionCounts(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
