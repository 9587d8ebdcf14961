// Package genome holds the restriction enzyme fragments of a genome and the
// capture targets selected from them
package genome

import (
	"errors"
	"fmt"
	"sort"

	"github.com/biogo/store/llrb"
	"github.com/cbrackley/capC-MAP/internal/bed"
	"github.com/sirupsen/logrus"
)

var (
	// ErrOverlapping is returned when two fragments of a chromosome overlap
	ErrOverlapping = errors.New("restriction fragments are overlapping")

	// ErrNoFragment is returned when a position is outside every fragment
	ErrNoFragment = errors.New("cannot determine fragment")

	// ErrUnknownChrom is returned for a chromosome absent from the fragments list
	ErrUnknownChrom = errors.New("chromosome not present in the fragments list")

	// ErrNoFragments is returned when loading an empty fragments list
	ErrNoFragments = errors.New("no restriction fragments loaded")

	// ErrChromSize is returned when fragments don't span a chromosome exactly
	ErrChromSize = errors.New("restriction fragments do not match the chromosome sizes")
)

// Fragment is a single restriction enzyme fragment, the stretch of genome
// between two neighboring cut sites
type Fragment struct {
	bed.Interval

	// IsTarget is set once, when the fragment is named in the targets list
	IsTarget bool

	// TargetName is the name of the target on this fragment, if any
	TargetName string
}

// fragKey is a node of a chromosome's ordered index. Only start takes part
// in ordering; idx points into the Index's fragment arena.
type fragKey struct {
	start int
	end   int
	idx   int
}

// Compare orders fragKeys by start
func (k *fragKey) Compare(c llrb.Comparable) int {
	return k.start - c.(*fragKey).start
}

// Index is the genome wide set of restriction fragments. Fragments live in a
// single arena ordered by (chrom, start) and are addressed by their position
// in it; each chromosome has an ordered index of arena positions.
type Index struct {
	frags  []Fragment
	chroms map[string]*llrb.Tree
	names  []string
}

// NewIndex builds the fragment index from a list of fragments in any order.
// Overlapping fragments are an error, while a chromosome whose first fragment
// doesn't start at 0, or whose fragments leave gaps, is only warned about.
func NewIndex(intervals []bed.Interval, log logrus.FieldLogger) (*Index, error) {
	if len(intervals) == 0 {
		return nil, ErrNoFragments
	}

	trees := make(map[string]*llrb.Tree)
	for i, iv := range intervals {
		tree, ok := trees[iv.Chrom]
		if !ok {
			tree = &llrb.Tree{}
			trees[iv.Chrom] = tree
		}

		key := &fragKey{start: iv.Start, end: iv.End, idx: i}
		if tree.Get(key) != nil {
			return nil, fmt.Errorf("%w in %s: two fragments start at %d", ErrOverlapping, iv.Chrom, iv.Start)
		}
		tree.Insert(key)
	}

	names := make([]string, 0, len(trees))
	for name := range trees {
		names = append(names, name)
	}
	sort.Strings(names)

	index := &Index{
		frags:  make([]Fragment, 0, len(intervals)),
		chroms: trees,
		names:  names,
	}

	for _, chrom := range names {
		var walkErr error
		first := true
		lastEnd := 0
		gaps := 0

		trees[chrom].Do(func(c llrb.Comparable) bool {
			key := c.(*fragKey)
			iv := intervals[key.idx]

			if first {
				if key.start != 0 {
					log.Warnf("first restriction fragment in chromosome %s does not start at 0", chrom)
				}
				first = false
			} else {
				if key.start < lastEnd {
					walkErr = fmt.Errorf("%w in %s at %d", ErrOverlapping, chrom, key.start)
					return true
				}
				if key.start != lastEnd {
					gaps++
				}
			}
			lastEnd = key.end

			// re-point the key from the input slice to the arena
			key.idx = len(index.frags)
			index.frags = append(index.frags, Fragment{
				Interval: bed.Interval{Chrom: iv.Chrom, Start: iv.Start, End: iv.End, Name: iv.Name},
			})
			return false
		})
		if walkErr != nil {
			return nil, walkErr
		}

		if gaps > 0 {
			log.Warnf("restriction fragments do not cover a contiguous region in %s", chrom)
		}
	}

	return index, nil
}

// LoadFragmentsFile reads the fragments BED file at path into an Index
func LoadFragmentsFile(path string, log logrus.FieldLogger) (*Index, error) {
	intervals, err := bed.ReadFile(path)
	if err != nil {
		return nil, err
	}

	index, err := NewIndex(intervals, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Infof("...Loaded %d restriction fragments on %d chromosomes from file %s", index.Len(), len(index.names), path)
	return index, nil
}

// Len is the number of fragments in the index
func (x *Index) Len() int {
	return len(x.frags)
}

// Fragment returns a copy of the fragment at arena position i
func (x *Index) Fragment(i int) Fragment {
	return x.frags[i]
}

// Chromosomes returns the names of every chromosome with fragments, sorted
func (x *Index) Chromosomes() []string {
	return append([]string(nil), x.names...)
}

// FindContaining returns the arena position of the fragment whose
// [start, end) holds pos. It looks up the fragment with the largest start
// not after pos, so a position on a cut site belongs to the fragment that
// starts there.
func (x *Index) FindContaining(chrom string, pos int) (int, error) {
	tree, ok := x.chroms[chrom]
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrUnknownChrom, chrom)
	}

	floor := tree.Floor(&fragKey{start: pos})
	if floor == nil {
		return -1, fmt.Errorf("%w for %s:%d (before the first fragment)", ErrNoFragment, chrom, pos)
	}

	key := floor.(*fragKey)
	if pos >= key.end {
		return -1, fmt.Errorf("%w for %s:%d", ErrNoFragment, chrom, pos)
	}
	return key.idx, nil
}

// FindSpanning returns the arena position of the fragment that holds the
// middle base of [start, end)
func (x *Index) FindSpanning(chrom string, start, end int) (int, error) {
	mid := (start + end) / 2
	i, err := x.FindContaining(chrom, mid)
	if err != nil {
		return -1, fmt.Errorf("location %s:%d-%d: %w", chrom, start, end, err)
	}
	return i, nil
}

// find returns the arena position of the fragment at exactly chrom:start
func (x *Index) find(chrom string, start int) (int, bool) {
	tree, ok := x.chroms[chrom]
	if !ok {
		return -1, false
	}
	found := tree.Get(&fragKey{start: start})
	if found == nil {
		return -1, false
	}
	return found.(*fragKey).idx, true
}

// markTarget flags the fragment at i as the capture target name
func (x *Index) markTarget(i int, name string) {
	x.frags[i].IsTarget = true
	x.frags[i].TargetName = name
}

// ChromSizes returns the end of the last fragment of every chromosome
func (x *Index) ChromSizes() bed.ChromSizes {
	sizes := make(bed.ChromSizes, len(x.names))
	for _, f := range x.frags {
		if f.End > sizes[f.Chrom] {
			sizes[f.Chrom] = f.End
		}
	}
	return sizes
}

// CheckChromSizes compares where the fragments of each chromosome end with
// its length in sizes. Chromosomes in sizes without any fragments are ignored.
func (x *Index) CheckChromSizes(sizes bed.ChromSizes) error {
	ends := x.ChromSizes()

	var errs []error
	for _, chrom := range x.names {
		size, ok := sizes[chrom]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: %s is missing from the sizes table", ErrChromSize, chrom))
		case ends[chrom] != size:
			errs = append(errs, fmt.Errorf("%w: fragments of %s end at %d, its length is %d", ErrChromSize, chrom, ends[chrom], size))
		}
	}
	return errors.Join(errs...)
}
