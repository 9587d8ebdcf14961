// Package bed is for reading the BED-like interval files used throughout capc:
// restriction fragment lists, capture target lists and genomic locations.
package bed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnreadable is returned for a line that cannot be parsed as an interval
var ErrUnreadable = errors.New("unreadable entry in bed file")

// Interval is a half-open genomic interval [Start, End) on a chromosome
// with the optional BED name, score and strand columns
type Interval struct {
	// Chrom is the chromosome (sequence) name
	Chrom string

	// Start is the 0-based first base of the interval
	Start int

	// End is one past the last base of the interval
	End int

	// Name is the optional fourth BED column
	Name string

	// Score is the optional fifth BED column
	Score int

	// Strand is the optional sixth BED column: "+", "-" or "."
	Strand string

	// Rest holds every column after End, tab separated, as it was read
	Rest string
}

// Len returns the number of bases in the interval
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Contains reports whether pos lies within [Start, End)
func (iv Interval) Contains(pos int) bool {
	return pos >= iv.Start && pos < iv.End
}

// SameLocation reports whether two intervals share chrom, start and end
func (iv Interval) SameLocation(other Interval) bool {
	return iv.Chrom == other.Chrom && iv.Start == other.Start && iv.End == other.End
}

// String formats the interval as chrom:start-end
func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Start, iv.End)
}

// ParseLine reads an interval from a whitespace delimited line. Column order
// must be chrom, start, end, name, score, strand; only the first three are
// required. Anything past the strand column is kept in Rest but not checked.
func ParseLine(line string) (Interval, error) {
	iv, fields, err := parseCoords(line)
	if err != nil {
		return Interval{}, err
	}

	if len(fields) > 4 {
		if iv.Score, err = parseUint(fields[4]); err != nil {
			return Interval{}, err
		}
	}

	if len(fields) > 5 {
		if strings.Trim(fields[5], "+-.") != "" {
			return Interval{}, fmt.Errorf("%w: bad strand %q", ErrUnreadable, fields[5])
		}
		iv.Strand = fields[5]
	}

	return iv, nil
}

// ParseLocationLine reads a genomic location from a BED-like line. Only
// chrom, start and end are checked; the columns after them, whatever they
// hold, are kept in Rest and the first of them is the Name.
func ParseLocationLine(line string) (Interval, error) {
	iv, _, err := parseCoords(line)
	return iv, err
}

// parseCoords reads the chrom, start and end columns, the optional name and
// the raw trailing columns
func parseCoords(line string) (Interval, []string, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Interval{}, nil, fmt.Errorf("%w: expected at least 3 columns, found %d", ErrUnreadable, len(fields))
	}

	start, err := parseUint(fields[1])
	if err != nil {
		return Interval{}, nil, err
	}
	end, err := parseUint(fields[2])
	if err != nil {
		return Interval{}, nil, err
	}

	iv := Interval{
		Chrom: fields[0],
		Start: start,
		End:   end,
		Rest:  strings.Join(fields[3:], "\t"),
	}
	if len(fields) > 3 {
		iv.Name = fields[3]
	}
	return iv, fields, nil
}

// parseUint only accepts plain decimal digits, no sign
func parseUint(s string) (int, error) {
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", ErrUnreadable, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return n, nil
}

// skipLine is true for lines that carry no interval: blank lines, comments
// and the UCSC track/browser header lines
func skipLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "track") ||
		strings.HasPrefix(trimmed, "browser")
}
