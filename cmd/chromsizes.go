package cmd

import (
	"github.com/cbrackley/capC-MAP/internal/bed"
	"github.com/cbrackley/capC-MAP/internal/genome"
	"github.com/spf13/cobra"
)

// chromSizesCmd writes the length of each chromosome covered by the fragments,
// or checks them against an existing table
var chromSizesCmd = &cobra.Command{
	Use:   "chromsizes",
	Short: "Write chromosome sizes from a restriction fragments file",
	Long: `Write the end of the last restriction fragment of each chromosome, one "chrom<TAB>length" line per chromosome.

With --check, nothing is written: the fragments are instead compared with an
existing chromosome sizes table, and any chromosome whose fragments don't end
exactly at its length is reported.`,
	Example: `  capc chromsizes -r DpnII_fragments.bed -o mm10.chrom.sizes
  capc chromsizes -r DpnII_fragments.bed --check mm10.chrom.sizes`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		fragments, _ := cmd.Flags().GetString("fragments")
		out, _ := cmd.Flags().GetString("out")
		check, _ := cmd.Flags().GetString("check")

		index, err := genome.LoadFragmentsFile(fragments, logger)
		if err != nil {
			return err
		}

		if check != "" {
			sizes, err := bed.ReadChromSizesFile(check)
			if err != nil {
				return err
			}
			if err := index.CheckChromSizes(sizes); err != nil {
				return err
			}
			logger.Infof("...Fragments of %d chromosomes match %s", len(index.Chromosomes()), check)
			return nil
		}

		w, err := bed.Create(out)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := w.Close(); err == nil {
				err = cerr
			}
		}()

		return index.ChromSizes().Write(w)
	},
}

func init() {
	chromSizesCmd.Flags().StringP("fragments", "r", "", "BED file of restriction fragments genome wide")
	chromSizesCmd.Flags().StringP("out", "o", "chrom.sizes", "output file")
	chromSizesCmd.Flags().StringP("check", "c", "", "chromosome sizes file to check the fragments against")
	chromSizesCmd.MarkFlagRequired("fragments")
	chromSizesCmd.MarkFlagsMutuallyExclusive("out", "check")

	RootCmd.AddCommand(chromSizesCmd)
}
