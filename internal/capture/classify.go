// Package capture classifies Capture-C read sets into target-reporter
// interactions, counts them and writes the per-target outputs
package capture

import (
	"errors"
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
	"github.com/cbrackley/capC-MAP/internal/genome"
	"github.com/cbrackley/capC-MAP/internal/samfrag"
)

// ErrTargetMismatch is returned when a fragment's target name doesn't lead
// back to the same fragment through the target registry
var ErrTargetMismatch = errors.New("something went wrong identifying a target")

// Outcome is what became of a read set
type Outcome int

const (
	// NoneMapped sets have no aligned fragments
	NoneMapped Outcome = iota

	// Duplicate sets were seen before
	Duplicate

	// NoTargets sets don't touch a target fragment
	NoTargets

	// MultipleTargets sets touch more than one target fragment
	MultipleTargets

	// NoReporters sets only hold their target fragment
	NoReporters

	// Excluded sets only have reporters close to a target
	Excluded

	// OnlyInter sets only have reporters on other chromosomes than the target
	OnlyInter

	// MultipleReporters sets have reporters that aren't one adjacent run
	MultipleReporters

	// Valid sets are a single target-reporter interaction on one chromosome
	Valid
)

var outcomeNames = map[Outcome]string{
	NoneMapped:        "none_mapped",
	Duplicate:         "duplicates_removed",
	NoTargets:         "no_targets",
	MultipleTargets:   "multiple_targets",
	NoReporters:       "no_reporters",
	Excluded:          "exclusion",
	OnlyInter:         "only_interchromosomal",
	MultipleReporters: "multiple_reporters",
	Valid:             "valid",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is the classification of one read set
type Result struct {
	Outcome Outcome

	// Target is the read set's single target, from NoReporters onward
	Target genome.Target

	// Reporters are the same-chromosome reporter fragments in (chrom, start)
	// order, for MultipleReporters and Valid
	Reporters []genome.Fragment

	// Inter are the reporter fragments away from the target's chromosome,
	// for OnlyInter
	Inter []genome.Fragment
}

// zone is the exclusion zone around one target. Coordinates are doubled so
// that fragment midpoints, which may fall on half a base, stay integers.
type zone struct {
	start, end int
	id         uintptr
}

func (z zone) Overlap(b interval.IntRange) bool {
	return z.end > b.Start && z.start < b.End
}
func (z zone) ID() uintptr              { return z.id }
func (z zone) Range() interval.IntRange { return interval.IntRange{Start: z.start, End: z.end} }

// Classifier decides the Outcome of each read set. It holds the duplicate
// table, so read sets must be classified in file order by one caller.
type Classifier struct {
	index   *genome.Index
	targets *genome.Registry
	dedup   *Deduplicator
	zones   map[string]*interval.IntTree
}

// NewClassifier returns a Classifier for the targets of index. A reporter
// whose midpoint is within exclusion bp of any target's midpoint is dropped.
func NewClassifier(index *genome.Index, targets *genome.Registry, exclusion int) (*Classifier, error) {
	if index == nil || targets == nil {
		return nil, errors.New("classifier needs loaded fragments and targets")
	}
	if exclusion < 0 {
		return nil, fmt.Errorf("exclusion zone must not be negative, got %d", exclusion)
	}

	zones := make(map[string]*interval.IntTree)
	for _, t := range targets.Targets() {
		tree, ok := zones[t.Chrom]
		if !ok {
			tree = &interval.IntTree{}
			zones[t.Chrom] = tree
		}

		mid2 := t.Start + t.End
		z := zone{start: mid2 - 2*exclusion, end: mid2 + 2*exclusion + 1, id: uintptr(t.ID)}
		if err := tree.Insert(z, false); err != nil {
			return nil, fmt.Errorf("failed to add exclusion zone of %s: %w", t.Name, err)
		}
	}

	return &Classifier{
		index:   index,
		targets: targets,
		dedup:   NewDeduplicator(),
		zones:   zones,
	}, nil
}

// Dedup returns the Classifier's duplicate table
func (c *Classifier) Dedup() *Deduplicator {
	return c.dedup
}

// Classify runs a read set through each filter in turn, stopping at the
// first that rejects it. An error means the fragments or targets are
// inconsistent with the alignments and the run can't continue.
func (c *Classifier) Classify(set samfrag.ReadSet) (Result, error) {
	if set.MappedCount() == 0 {
		return Result{Outcome: NoneMapped}, nil
	}

	// after the unmapped check, so sets with nothing mapped never reach the table
	if c.dedup.IsDuplicate(set) {
		return Result{Outcome: Duplicate}, nil
	}

	frags, err := c.expand(set)
	if err != nil {
		return Result{}, fmt.Errorf("read set %s: %w", set.Name(), err)
	}

	targetIdx, nTargets := -1, 0
	for _, i := range frags {
		if c.index.Fragment(i).IsTarget {
			targetIdx = i
			nTargets++
		}
	}
	switch {
	case nTargets == 0:
		return Result{Outcome: NoTargets}, nil
	case nTargets > 1:
		return Result{Outcome: MultipleTargets}, nil
	}

	target, err := c.target(targetIdx)
	if err != nil {
		return Result{}, err
	}
	res := Result{Target: target}

	var reporters []genome.Fragment
	for _, i := range frags {
		if i != targetIdx {
			reporters = append(reporters, c.index.Fragment(i))
		}
	}
	if len(reporters) == 0 {
		res.Outcome = NoReporters
		return res, nil
	}

	var kept []genome.Fragment
	for _, f := range reporters {
		if !c.excluded(f) {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		res.Outcome = Excluded
		return res, nil
	}

	var intra, inter []genome.Fragment
	for _, f := range kept {
		if f.Chrom == target.Chrom {
			intra = append(intra, f)
		} else {
			inter = append(inter, f)
		}
	}
	if len(intra) == 0 {
		res.Outcome = OnlyInter
		res.Inter = inter
		return res, nil
	}

	res.Reporters = intra
	if !adjacent(intra) {
		res.Outcome = MultipleReporters
		return res, nil
	}

	res.Outcome = Valid
	return res, nil
}

// expand maps each aligned fragment to the restriction fragment it lies in.
// The result holds each restriction fragment once, in (chrom, start) order.
func (c *Classifier) expand(set samfrag.ReadSet) ([]int, error) {
	frags := make([]int, 0, len(set))
	for _, rec := range set {
		if !rec.Mapped() {
			continue
		}

		i, err := c.index.FindContaining(rec.Chrom, rec.Start)
		if err != nil {
			return nil, fmt.Errorf("a sam line was mapped outside the fragments list: %w", err)
		}
		frags = append(frags, i)
	}

	// arena order is (chrom, start) order
	sort.Ints(frags)
	unique := frags[:0]
	for i, f := range frags {
		if i == 0 || f != frags[i-1] {
			unique = append(unique, f)
		}
	}
	return unique, nil
}

// target resolves the target on the fragment at arena position i
func (c *Classifier) target(i int) (genome.Target, error) {
	name := c.index.Fragment(i).TargetName

	t, ok := c.targets.Lookup(name)
	if !ok || t.Fragment != i {
		return genome.Target{}, fmt.Errorf("%w: %s", ErrTargetMismatch, name)
	}
	return t, nil
}

// excluded reports whether f's midpoint is within the exclusion zone of any target
func (c *Classifier) excluded(f genome.Fragment) bool {
	tree, ok := c.zones[f.Chrom]
	if !ok {
		return false
	}

	mid2 := f.Start + f.End
	hit := false
	tree.DoMatching(func(interval.IntInterface) bool {
		hit = true
		return true
	}, zone{start: mid2, end: mid2 + 1})
	return hit
}

// adjacent reports whether sorted fragments form one unbroken run
func adjacent(frags []genome.Fragment) bool {
	for i := 1; i < len(frags); i++ {
		if frags[i].Start != frags[i-1].End {
			return false
		}
	}
	return true
}
