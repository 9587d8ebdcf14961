package capture

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cbrackley/capC-MAP/internal/bed"
)

// interactionCountsHeader is the comment line opening an interaction counts file
const interactionCountsHeader = "# target name, total intrachromosomal interactions, total interchromosomal interactions, " +
	"total interactions, interactions within 5Mb, interactions within 1Mb"

var rule = strings.Repeat("#", 82)

// InteractionCount is one row of the interaction counts file
type InteractionCount struct {
	Name      string
	Intra     uint64
	Inter     uint64
	Total     uint64
	Within5Mb uint64
	Within1Mb uint64
}

// InteractionCounts returns a row per target, in target name order
func (c *Counters) InteractionCounts() []InteractionCount {
	rows := make([]InteractionCount, 0, len(c.names))
	for _, name := range c.names {
		tc := c.PerTarget[name]
		rows = append(rows, InteractionCount{
			Name:      name,
			Intra:     tc.ValidPairs,
			Inter:     tc.OnlyInter,
			Total:     tc.ValidPairs + tc.OnlyInter,
			Within5Mb: tc.Within5Mb,
			Within1Mb: tc.Within1Mb,
		})
	}
	return rows
}

// WriteInteractionCounts writes the header and a tab separated row per target:
// name, intra, inter, total, within 5Mb, within 1Mb
func (c *Counters) WriteInteractionCounts(w io.Writer) error {
	if _, err := fmt.Fprintln(w, interactionCountsHeader); err != nil {
		return err
	}
	for _, row := range c.InteractionCounts() {
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
			row.Name, row.Intra, row.Inter, row.Total, row.Within5Mb, row.Within1Mb)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteInteractionCountsFile writes the interaction counts to a new file at path
func (c *Counters) WriteInteractionCountsFile(path string) (err error) {
	w, err := bed.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	return c.WriteInteractionCounts(w)
}

// ReadInteractionCounts parses an interaction counts file
func ReadInteractionCounts(r io.Reader) ([]InteractionCount, error) {
	var rows []InteractionCount

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 6 {
			return nil, fmt.Errorf("interaction counts line %d: expected 6 columns, found %d", line, len(fields))
		}

		var nums [5]uint64
		for i := range nums {
			n, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("interaction counts line %d: %w", line, err)
			}
			nums[i] = n
		}

		rows = append(rows, InteractionCount{
			Name:      fields[0],
			Intra:     nums[0],
			Inter:     nums[1],
			Total:     nums[2],
			Within5Mb: nums[3],
			Within1Mb: nums[4],
		})
	}
	return rows, scanner.Err()
}

// percent is 100*n/d, or 0 when there is nothing to divide by
func percent(n, d uint64) float64 {
	if d == 0 {
		return 0
	}
	return 100 * float64(n) / float64(d)
}

// WriteReport writes the human readable summary of a run. title names the
// analysis in the report's heading, usually the report's file name.
func (c *Counters) WriteReport(w io.Writer, title string) error {
	b := bufio.NewWriter(w)
	remaining := c.Remaining()

	count := func(label string, n uint64) {
		fmt.Fprintf(b, "### %-50s:  %13d\n", label, n)
	}
	share := func(label string, n uint64) {
		fmt.Fprintf(b, "###   %-48s:  %13d  (%.2f %%)\n", label, n, percent(n, remaining))
	}

	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "###")
	fmt.Fprintf(b, "### Report for Capture C Analysis %s\n", title)
	fmt.Fprintln(b, "###")
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "###")
	count("total number of read fragments", c.ReadFrags)
	count("total number of read sets", c.ReadSets)
	fmt.Fprintln(b, "###")
	fmt.Fprintln(b, "### Duplicates :")
	fmt.Fprintln(b, "###")
	fmt.Fprintf(b, "###   %-48s:  %13d  (%.2f %%)\n", "number of duplicate sets removed", c.Duplicates, percent(c.Duplicates, c.ReadSets))
	fmt.Fprintln(b, "###")
	fmt.Fprintf(b, "### Of the remaining %d read sets :\n", remaining)
	fmt.Fprintln(b, "###")
	share("number of sets where no fragments mapped", c.NoneMapped)
	share("number of sets with no targets fragments", c.NoTargets)
	share("number of sets with multiple targets", c.MultipleTargets)
	share("number of sets with no reporters", c.NoReporters)
	share("number of interactions within exclusion region", c.Exclusion)
	share("number of interactions with multiple non-adjacent reporters", c.MultipleReporters)
	fmt.Fprintln(b, "###")
	fmt.Fprintln(b, "### Valid Interactions :")
	fmt.Fprintln(b, "###")
	share("interchromosomal", c.Interchrom)
	share("intrachromosomal", c.ValidPairs)
	fmt.Fprintln(b, "###")
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "###")
	fmt.Fprintln(b, "### Overall yield : ")
	fmt.Fprintf(b, "###                      total read sets : %13d\n", c.ReadSets)
	fmt.Fprintf(b, "###                    valid interaction : %13d\n", c.Interactions())
	fmt.Fprintf(b, "###                            %% overall : %13.2f %%\n", percent(c.Interactions(), c.ReadSets))
	fmt.Fprintf(b, "###           %% after duplicates removed : %13.2f %%\n", percent(c.Interactions(), remaining))
	fmt.Fprintf(b, "### %% of valid which are intrachomosomal : %13.2f %%\n", percent(c.ValidPairs, c.Interactions()))
	fmt.Fprintln(b, "###")
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "###")
	fmt.Fprintln(b, "### Per target information ")
	fmt.Fprintln(b, "###")
	fmt.Fprintf(b, "###   %-15s  %10s  %10s  %10s\n", "target name", "intra", "inter", "total")
	for _, row := range c.InteractionCounts() {
		fmt.Fprintf(b, "###   %-15s  %10d  %10d  %10d\n", row.Name, row.Intra, row.Inter, row.Total)
	}
	fmt.Fprintln(b, "###")
	fmt.Fprintln(b, rule)

	return b.Flush()
}

// WriteReportFile writes the summary report to a new file at path
func (c *Counters) WriteReportFile(path string) (err error) {
	w, err := bed.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	return c.WriteReport(w, path)
}
