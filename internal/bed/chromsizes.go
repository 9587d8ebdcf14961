package bed

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shenwei356/xopen"
)

// ChromSizes maps a chromosome name to its length in bp
type ChromSizes map[string]int

// Names returns the chromosome names in lexical order
func (c ChromSizes) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadChromSizes parses a two column "chrom length" table. A chromosome
// listed twice, or a length that isn't a plain number, is an error.
func ReadChromSizes(r io.Reader) (ChromSizes, error) {
	sizes := make(ChromSizes)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: %w: expected chromosome and length", line, ErrUnreadable)
		}

		chrom := fields[0]
		if _, exists := sizes[chrom]; exists {
			return nil, fmt.Errorf("line %d: duplicate chromosome %s in chrom sizes file", line, chrom)
		}

		length, err := parseUint(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: unreadable entry in chrom sizes file: %w", line, err)
		}
		sizes[chrom] = length
	}

	return sizes, scanner.Err()
}

// ReadChromSizesFile reads a chromosome size table from a path
func ReadChromSizesFile(path string) (ChromSizes, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file %s: %w", path, err)
	}
	defer f.Close()

	sizes, err := ReadChromSizes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sizes, nil
}

// Write the table as tab separated "chrom length" rows in chromosome order
func (c ChromSizes) Write(w io.Writer) error {
	for _, name := range c.Names() {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", name, c[name]); err != nil {
			return err
		}
	}
	return nil
}
