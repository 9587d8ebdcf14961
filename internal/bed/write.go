package bed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shenwei356/xopen"
)

// ErrFileExists is returned rather than overwriting an existing output file
var ErrFileExists = errors.New("already exists (will not overwrite)")

// Exists reports whether something is already at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Create opens a new output file at path, gzipped if path ends in ".gz".
// An existing file is never overwritten.
func Create(path string) (*xopen.Writer, error) {
	if Exists(path) {
		return nil, fmt.Errorf("file %s %w", path, ErrFileExists)
	}

	w, err := xopen.Wopen(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s for writing: %w", path, err)
	}
	return w, nil
}

// WriteInterval writes chrom, start and end tab separated, followed by Rest
// when there is one
func WriteInterval(w io.Writer, iv Interval) error {
	var err error
	if iv.Rest != "" {
		_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", iv.Chrom, iv.Start, iv.End, iv.Rest)
	} else {
		_, err = fmt.Fprintf(w, "%s\t%d\t%d\n", iv.Chrom, iv.Start, iv.End)
	}
	return err
}

// WriteIntervals writes each interval on its own line
func WriteIntervals(w io.Writer, intervals []Interval) error {
	for _, iv := range intervals {
		if err := WriteInterval(w, iv); err != nil {
			return err
		}
	}
	return nil
}
