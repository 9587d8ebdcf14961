package cmd

import (
	"io"
	"os"

	"github.com/cbrackley/capC-MAP/internal/bed"
	"github.com/cbrackley/capC-MAP/internal/genome"
	"github.com/spf13/cobra"
)

// locateCmd finds the restriction fragments holding genomic locations, to
// build a targets file from the locations of capture oligos
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the restriction fragment of each location",
	Long: `Find the restriction fragment of each location.

Locations come from a BED file (-i) or a single chr:start-end (-l). Each is
replaced by the restriction fragment containing its midpoint, keeping any
name and further columns, so the output can be used as a targets file.`,
	Example: "  capc locate -r DpnII_fragments.bed -i oligos.bed -o targets.bed",
	RunE:    locateExec,
}

func locateExec(cmd *cobra.Command, args []string) (err error) {
	flags := cmd.Flags()
	fragments, _ := flags.GetString("fragments")
	in, _ := flags.GetString("in")
	loc, _ := flags.GetString("location")
	out, _ := flags.GetString("out")

	var locations []bed.Interval
	if loc != "" {
		iv, err := bed.ParseLocation(loc)
		if err != nil {
			return err
		}
		locations = append(locations, iv)
	} else {
		if locations, err = bed.ReadLocationsFile(in); err != nil {
			return err
		}
	}

	index, err := genome.LoadFragmentsFile(fragments, logger)
	if err != nil {
		return err
	}

	located, err := index.Locate(locations)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		var f io.WriteCloser
		if f, err = bed.Create(out); err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if err := bed.WriteIntervals(w, located); err != nil {
		return err
	}
	logger.Debugf("located %d fragments", len(located))
	return nil
}

func init() {
	locateCmd.Flags().StringP("fragments", "r", "", "BED file of restriction fragments genome wide")
	locateCmd.Flags().StringP("in", "i", "", "BED file of locations")
	locateCmd.Flags().StringP("location", "l", "", "a single location, chr:start-end")
	locateCmd.Flags().StringP("out", "o", "", "output BED file (default stdout)")

	locateCmd.MarkFlagRequired("fragments")
	locateCmd.MarkFlagsMutuallyExclusive("in", "location")
	locateCmd.MarkFlagsOneRequired("in", "location")

	RootCmd.AddCommand(locateCmd)
}
