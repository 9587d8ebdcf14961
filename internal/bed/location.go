package bed

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadLocation is returned for a location string not in chrom:start-end form
var ErrBadLocation = errors.New("genomic location is not correctly formed")

// ParseLocation reads a single genomic location like "chr1:1234-5678"
func ParseLocation(loc string) (Interval, error) {
	colon := strings.Index(loc, ":")
	if colon < 1 {
		return Interval{}, fmt.Errorf("%w: %q", ErrBadLocation, loc)
	}

	span := loc[colon+1:]
	dash := strings.Index(span, "-")
	if dash < 0 {
		return Interval{}, fmt.Errorf("%w: %q", ErrBadLocation, loc)
	}

	start, err := parseUint(span[:dash])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrBadLocation, loc)
	}
	end, err := parseUint(span[dash+1:])
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %q", ErrBadLocation, loc)
	}
	if end < start {
		return Interval{}, fmt.Errorf("%w: end before start in %q", ErrBadLocation, loc)
	}

	return Interval{Chrom: loc[:colon], Start: start, End: end}, nil
}
