package capture

import (
	"strconv"
	"strings"

	"github.com/cbrackley/capC-MAP/internal/samfrag"
)

// Deduplicator remembers every read set seen so far by its fingerprint.
// The table only grows.
type Deduplicator struct {
	seen map[string]int
}

// NewDeduplicator returns an empty Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]int)}
}

// Fingerprint identifies a read set by the position and length of each
// mapped fragment, or the sequence of each unmapped one, in file order
func Fingerprint(set samfrag.ReadSet) string {
	var b strings.Builder
	for _, rec := range set {
		if !rec.Mapped() {
			b.WriteString(rec.Sequence)
			b.WriteByte(' ')
			continue
		}
		b.WriteString(rec.Chrom)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(rec.Start))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(rec.Length))
		b.WriteByte(' ')
	}
	return b.String()
}

// IsDuplicate registers the read set and reports whether an identical one
// was registered before
func (d *Deduplicator) IsDuplicate(set samfrag.ReadSet) bool {
	fp := Fingerprint(set)
	d.seen[fp]++
	return d.seen[fp] > 1
}

// Len is the number of distinct read sets registered
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

// Occurrences is how many times a fingerprint has been registered
func (d *Deduplicator) Occurrences(fingerprint string) int {
	return d.seen[fingerprint]
}
