package genome

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cbrackley/capC-MAP/internal/bed"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFragment is returned for a target that isn't exactly one restriction fragment
	ErrNotFragment = errors.New("target is not a restriction enzyme fragment")

	// ErrDuplicateTarget is returned when two targets share a name
	ErrDuplicateTarget = errors.New("multiple targets with same name")

	// ErrUnnamedTarget is returned for a target line without a name column
	ErrUnnamedTarget = errors.New("an entry in the targets list has no name")

	// ErrNoIndex is returned when targets are loaded before the fragments
	ErrNoIndex = errors.New("attempted to load targets without first loading restriction fragments")
)

// Target is a restriction fragment selected for capture
type Target struct {
	bed.Interval

	// ID is the position of the target in the targets list
	ID int

	// Fragment is the arena position of the target's fragment in the Index
	Fragment int
}

// Registry is the set of capture targets, searchable by their unique name
type Registry struct {
	targets []Target
	byName  map[string]int
	sorted  []string
}

// NewRegistry matches each target interval to a fragment in index and
// flags that fragment as a target. Every target needs a unique name and the
// exact coordinates of a fragment; a second target on an already flagged
// fragment is ignored with a warning.
func NewRegistry(intervals []bed.Interval, index *Index, log logrus.FieldLogger) (*Registry, error) {
	if index == nil || index.Len() == 0 {
		return nil, ErrNoIndex
	}

	reg := &Registry{byName: make(map[string]int)}

	for id, iv := range intervals {
		if iv.Name == "" {
			return nil, fmt.Errorf("%w (%s); all target fragments must have a unique name", ErrUnnamedTarget, iv)
		}

		if _, known := index.chroms[iv.Chrom]; !known {
			return nil, fmt.Errorf("unknown target chromosome %s: %w", iv.Chrom, ErrUnknownChrom)
		}

		fragIdx, ok := index.find(iv.Chrom, iv.Start)
		if !ok || !index.frags[fragIdx].SameLocation(iv) {
			return nil, fmt.Errorf("target %s at %s: %w", iv.Name, iv, ErrNotFragment)
		}

		if index.frags[fragIdx].IsTarget {
			log.Warnf("more than one target defined at same location - ignoring the duplicate entry '%s'", iv.Name)
			continue
		}

		if _, taken := reg.byName[iv.Name]; taken {
			return nil, fmt.Errorf("%w: %s; all target fragments must have a unique name", ErrDuplicateTarget, iv.Name)
		}

		reg.byName[iv.Name] = len(reg.targets)
		reg.targets = append(reg.targets, Target{
			Interval: bed.Interval{Chrom: iv.Chrom, Start: iv.Start, End: iv.End, Name: iv.Name},
			ID:       id,
			Fragment: fragIdx,
		})
		index.markTarget(fragIdx, iv.Name)
	}

	reg.sorted = make([]string, 0, len(reg.targets))
	for name := range reg.byName {
		reg.sorted = append(reg.sorted, name)
	}
	sort.Strings(reg.sorted)

	return reg, nil
}

// LoadTargetsFile reads a BED file of capture targets and registers them
// against the fragments in index
func LoadTargetsFile(path string, index *Index, log logrus.FieldLogger) (*Registry, error) {
	if index == nil {
		return nil, ErrNoIndex
	}

	intervals, err := bed.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reg, err := NewRegistry(intervals, index, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Infof("...Loaded list of %d targets from file %s", reg.Len(), path)
	return reg, nil
}

// Len is the number of registered targets
func (r *Registry) Len() int {
	return len(r.targets)
}

// Lookup a target by its name
func (r *Registry) Lookup(name string) (Target, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Target{}, false
	}
	return r.targets[i], true
}

// Names of every target in lexical order
func (r *Registry) Names() []string {
	return append([]string(nil), r.sorted...)
}

// Targets returns every target, ordered by name
func (r *Registry) Targets() []Target {
	targets := make([]Target, len(r.sorted))
	for i, name := range r.sorted {
		targets[i] = r.targets[r.byName[name]]
	}
	return targets
}
