package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/cbrackley/capC-MAP/internal/bed"
	"github.com/cbrackley/capC-MAP/internal/genome"
)

// ErrNoOutput is returned when writing for a target without an output file
var ErrNoOutput = errors.New("target error: no output file for target")

// PairsPath is the file of valid intrachromosomal reporters for a target
func PairsPath(prefix, target string) string {
	return prefix + "_validpairs_" + target + ".pairs"
}

// InterPath is the file of interchromosomal reporters for a target
func InterPath(prefix, target string) string {
	return prefix + "_validinterchom_" + target + ".pairs"
}

// InteractionCountsPath is the per-target interaction counts file of a run
func InteractionCountsPath(prefix string) string {
	return prefix + "_interactioncounts.dat"
}

// ReportPath is the summary report of a run
func ReportPath(prefix string) string {
	return prefix + "_report.dat"
}

// Outputs are the per-target reporter files of a run, held open until Close
type Outputs struct {
	pairs   map[string]io.Writer
	inter   map[string]io.Writer
	closers []io.Closer
}

// OpenOutputs creates a pairs file for every target, and an interchromosomal
// file too if saveInter is set. No file is opened unless none of them exist.
func OpenOutputs(prefix string, targets []string, saveInter bool) (*Outputs, error) {
	var paths []string
	for _, name := range targets {
		paths = append(paths, PairsPath(prefix, name))
		if saveInter {
			paths = append(paths, InterPath(prefix, name))
		}
	}
	for _, path := range paths {
		if bed.Exists(path) {
			return nil, fmt.Errorf("file %s %w", path, bed.ErrFileExists)
		}
	}

	o := &Outputs{pairs: make(map[string]io.Writer)}
	if saveInter {
		o.inter = make(map[string]io.Writer)
	}

	for _, name := range targets {
		w, err := bed.Create(PairsPath(prefix, name))
		if err != nil {
			o.Close()
			return nil, err
		}
		o.pairs[name] = w
		o.closers = append(o.closers, w)

		if !saveInter {
			continue
		}
		w, err = bed.Create(InterPath(prefix, name))
		if err != nil {
			o.Close()
			return nil, err
		}
		o.inter[name] = w
		o.closers = append(o.closers, w)
	}

	return o, nil
}

// SavesInter reports whether interchromosomal reporters are written
func (o *Outputs) SavesInter() bool {
	return o.inter != nil
}

// WritePair appends a valid reporter fragment to the target's pairs file
func (o *Outputs) WritePair(target string, f genome.Fragment) error {
	return write(o.pairs, target, f)
}

// WriteInter appends an interchromosomal reporter to the target's file
func (o *Outputs) WriteInter(target string, f genome.Fragment) error {
	return write(o.inter, target, f)
}

func write(files map[string]io.Writer, target string, f genome.Fragment) error {
	w, ok := files[target]
	if !ok {
		return fmt.Errorf("%w %s", ErrNoOutput, target)
	}
	return bed.WriteInterval(w, bed.Interval{Chrom: f.Chrom, Start: f.Start, End: f.End})
}

// Close flushes and closes every file, returning the errors of any that failed
func (o *Outputs) Close() error {
	var errs []error
	for _, c := range o.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	o.closers = nil
	return errors.Join(errs...)
}
