package samfrag

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shenwei356/xopen"
)

// ErrNoEntries is returned for alignment input holding no records
var ErrNoEntries = errors.New("samfile does not contain any entries")

// maxLineLength caps the size of a single SAM line
const maxLineLength = 64 * 1024 * 1024

// Grouper reads SAM records in file order and yields runs of consecutive
// records that share a set name. Input must already be grouped by read name;
// records are never reordered.
type Grouper struct {
	scanner *bufio.Scanner
	closer  io.Closer
	name    string
	marker  string
	line    int

	started bool

	// pending is the first record of the next read set, read ahead
	pending *Record

	set ReadSet
	err error
}

// NewGrouper returns a Grouper reading SAM text from r. name is used in
// error messages; marker ends the set name within a read name.
func NewGrouper(r io.Reader, name, marker string) *Grouper {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 256*1024), maxLineLength)

	return &Grouper{scanner: scanner, name: name, marker: marker}
}

// OpenGrouper opens a (possibly gzipped) SAM file, "-" for stdin
func OpenGrouper(path, marker string) (*Grouper, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s: %w", path, err)
	}

	g := NewGrouper(f, path, marker)
	g.closer = f
	return g, nil
}

// Next reads the next read set. It returns false when the input is used up
// or an error occurs; check Err afterwards.
func (g *Grouper) Next() bool {
	if g.err != nil {
		return false
	}

	if !g.started {
		g.started = true
		if !g.start() {
			return false
		}
	}

	if g.pending == nil {
		return false
	}

	set := ReadSet{*g.pending}
	g.pending = nil
	for {
		rec, ok := g.read()
		if !ok {
			break
		}
		if rec.SetName != set[0].SetName {
			g.pending = &rec
			break
		}
		set = append(set, rec)
	}
	if g.err != nil {
		return false
	}

	g.set = set
	return true
}

// start throws away the header and reads ahead the first record
func (g *Grouper) start() bool {
	for {
		text, ok := g.scan()
		if !ok {
			if g.err == nil {
				g.err = fmt.Errorf("%s: %w", g.name, ErrNoEntries)
			}
			return false
		}
		if strings.HasPrefix(text, "@") {
			continue
		}

		rec, err := ParseRecord(text, g.marker)
		if err != nil {
			g.err = fmt.Errorf("%s line %d: %w", g.name, g.line, err)
			return false
		}
		g.pending = &rec
		return true
	}
}

// read decodes the next record, false at the end of input or on error
func (g *Grouper) read() (Record, bool) {
	text, ok := g.scan()
	if !ok {
		return Record{}, false
	}

	rec, err := ParseRecord(text, g.marker)
	if err != nil {
		g.err = fmt.Errorf("%s line %d: %w", g.name, g.line, err)
		return Record{}, false
	}
	return rec, true
}

// scan returns the next non-blank line
func (g *Grouper) scan() (string, bool) {
	for g.scanner.Scan() {
		g.line++
		if text := g.scanner.Text(); strings.TrimSpace(text) != "" {
			return text, true
		}
	}
	if err := g.scanner.Err(); err != nil {
		g.err = fmt.Errorf("failed to read %s: %w", g.name, err)
	}
	return "", false
}

// Set returns the read set found by the last call to Next
func (g *Grouper) Set() ReadSet {
	return g.set
}

// Err returns the first error hit while reading
func (g *Grouper) Err() error {
	return g.err
}

// Close the underlying file if the Grouper was made with OpenGrouper
func (g *Grouper) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}
