package genome

import (
	"github.com/cbrackley/capC-MAP/internal/bed"
)

// Locate converts genomic windows to the restriction fragments holding their
// midpoints. Each returned interval has the fragment's coordinates and the
// extra columns (Rest) of the window it came from.
func (x *Index) Locate(locations []bed.Interval) ([]bed.Interval, error) {
	frags := make([]bed.Interval, 0, len(locations))
	for _, loc := range locations {
		i, err := x.FindSpanning(loc.Chrom, loc.Start, loc.End)
		if err != nil {
			return nil, err
		}

		f := x.frags[i]
		frags = append(frags, bed.Interval{
			Chrom: f.Chrom,
			Start: f.Start,
			End:   f.End,
			Rest:  loc.Rest,
		})
	}
	return frags, nil
}
