// Package samfrag reads SAM alignments of digested read fragments and
// gathers them back into the read sets they were cut from
package samfrag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultMarker separates the read name from the fragment suffix added by digestion
	DefaultMarker = "DIGEST"

	// Unmapped is the SAM reference name of a fragment that didn't align
	Unmapped = "*"

	// samFields is the number of mandatory SAM columns a record needs
	samFields = 10
)

// ErrCorrupt is returned for an alignment line that can't be decoded
var ErrCorrupt = errors.New("corrupt sam entry")

// Record is a single aligned (or unaligned) read fragment
type Record struct {
	// Name is the full read name (QNAME)
	Name string

	// SetName is the read name up to the digest marker, shared by every
	// fragment cut from the same read pair
	SetName string

	// Chrom is the reference name, "*" when unmapped
	Chrom string

	// Start is the 0-based leftmost mapping position
	Start int

	// Length is the length of the fragment's sequence
	Length int

	// Sequence is only kept for unmapped fragments
	Sequence string
}

// Mapped reports whether the fragment aligned to the genome
func (r Record) Mapped() bool {
	return r.Chrom != Unmapped
}

// SetName returns name up to the first occurrence of marker
func SetName(name, marker string) string {
	if marker == "" {
		return name
	}
	if i := strings.Index(name, marker); i >= 0 {
		return name[:i]
	}
	return name
}

// ParseRecord decodes a SAM line. FLAG, MAPQ, CIGAR and the mate columns
// are not used; SEQ only supplies the fragment length (and the sequence
// itself for unmapped fragments).
func ParseRecord(line, marker string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < samFields {
		return Record{}, fmt.Errorf("%w: expected %d columns, found %d", ErrCorrupt, samFields, len(fields))
	}

	pos, err := strconv.Atoi(fields[3])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad position %q", ErrCorrupt, fields[3])
	}

	seq := fields[9]
	rec := Record{
		Name:    fields[0],
		SetName: SetName(fields[0], marker),
		Chrom:   fields[2],
		Start:   pos - 1, // SAM is 1-based
		Length:  len(seq),
	}
	if !rec.Mapped() {
		rec.Sequence = seq
	}

	return rec, nil
}

// ReadSet is every fragment of one original read, in file order
type ReadSet []Record

// Name of the read set
func (s ReadSet) Name() string {
	if len(s) == 0 {
		return ""
	}
	return s[0].SetName
}

// MappedCount is the number of fragments that aligned
func (s ReadSet) MappedCount() int {
	n := 0
	for _, r := range s {
		if r.Mapped() {
			n++
		}
	}
	return n
}
