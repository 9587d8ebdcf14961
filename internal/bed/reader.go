package bed

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shenwei356/xopen"
)

// maxLineLength caps the size of a single input line
const maxLineLength = 16 * 1024 * 1024

// Reader iterates the intervals of a BED-like file
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer

	// name is used in error messages, usually the file path
	name string
	line int

	// parse decodes a single line
	parse func(string) (Interval, error)

	current Interval
	err     error
}

// NewReader returns a Reader over r. name is only used for error messages.
func NewReader(r io.Reader, name string) *Reader {
	return newReader(r, name, ParseLine)
}

// NewLocationReader returns a Reader over r that only checks the first three
// columns of each line, see ParseLocationLine
func NewLocationReader(r io.Reader, name string) *Reader {
	return newReader(r, name, ParseLocationLine)
}

func newReader(r io.Reader, name string, parse func(string) (Interval, error)) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	return &Reader{scanner: scanner, name: name, parse: parse}
}

// Open a (possibly gzipped) interval file by its path. "-" is stdin.
func Open(path string) (*Reader, error) {
	return open(path, NewReader)
}

// OpenLocations opens a file of genomic locations, read as by NewLocationReader
func OpenLocations(path string) (*Reader, error) {
	return open(path, NewLocationReader)
}

func open(path string, newReader func(io.Reader, string) *Reader) (*Reader, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s: %w", path, err)
	}

	r := newReader(f, path)
	r.closer = f
	return r, nil
}

// Next advances to the next interval. It returns false at the end of the
// input or on the first error, which is then available from Err.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		if skipLine(text) {
			continue
		}

		iv, err := r.parse(text)
		if err != nil {
			r.err = fmt.Errorf("%s line %d: %w", r.name, r.line, err)
			return false
		}
		r.current = iv
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("failed to read %s: %w", r.name, err)
	}
	return false
}

// Interval returns the interval read by the last call to Next
func (r *Reader) Interval() Interval {
	return r.current
}

// Line returns the line number of the current interval
func (r *Reader) Line() int {
	return r.line
}

// Err returns the first error hit while reading
func (r *Reader) Err() error {
	return r.err
}

// Close the underlying file if the Reader was made with Open
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadAll collects every remaining interval
func (r *Reader) ReadAll() ([]Interval, error) {
	var intervals []Interval
	for r.Next() {
		intervals = append(intervals, r.Interval())
	}
	return intervals, r.Err()
}

// ReadFile opens, reads and closes an interval file
func ReadFile(path string) ([]Interval, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.ReadAll()
}

// ReadLocationsFile opens, reads and closes a file of genomic locations
func ReadLocationsFile(path string) ([]Interval, error) {
	r, err := OpenLocations(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.ReadAll()
}
