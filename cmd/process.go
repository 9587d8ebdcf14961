package cmd

import (
	"github.com/cbrackley/capC-MAP/config"
	"github.com/cbrackley/capC-MAP/internal/capture"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// processCmd runs the capture analysis over a SAM file of digested read pairs
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Classify read sets and count interactions for each capture target",
	Long: `Classify read sets and count interactions for each capture target.

The SAM file holds aligned fragments of in silico digested reads, all the
fragments of a read next to each other and named <read><marker><n>. Each read
set is mapped onto the restriction fragments and filtered in turn:

1. sets with no mapped fragments are dropped
2. sets identical to an earlier set are dropped as PCR duplicates
3. sets must hit exactly one target fragment, and at least one reporter
4. reporters within the exclusion zone of any target are dropped
5. sets with reporters on the target's chromosome must have one run of
   adjacent reporters; sets with reporters only on other chromosomes
   are counted as interchromosomal

For every target, "<out>_validpairs_<target>.pairs" receives one reporter
fragment per valid set. "<out>_interactioncounts.dat" and "<out>_report.dat"
summarize the run. No existing file is ever overwritten.`,
	Example: "  capc process -r DpnII_fragments.bed -t targets.bed -s reads.sam -o run1",
	RunE:    processExec,
}

func processExec(cmd *cobra.Command, args []string) error {
	conf, err := config.New()
	if err != nil {
		return err
	}
	if err := conf.Process.Validate(); err != nil {
		return err
	}

	logger.Infof("Processing %s with an exclusion zone of %d bp", conf.Process.Alignments, conf.Process.Exclusion)
	_, err = capture.Run(conf, logger)
	return err
}

func init() {
	processCmd.Flags().StringP("fragments", "r", "", "BED file of restriction fragments genome wide")
	processCmd.Flags().StringP("targets", "t", "", "BED file of capture target fragments")
	processCmd.Flags().StringP("sam", "s", "", "SAM file of aligned digested read fragments, '-' for stdin")
	processCmd.Flags().StringP("out", "o", "", "prefix of every output file")
	processCmd.Flags().IntP("exclusion", "e", config.DefaultExclusion, "exclusion zone around targets, in bp")
	processCmd.Flags().BoolP("save-inter", "i", false, "write interchromosomal reporters too")
	processCmd.Flags().Int64("seed", 0, "seed for picking interchromosomal reporters (0 uses the clock)")

	for _, flag := range []string{"fragments", "targets", "sam", "out", "exclusion", "save-inter", "seed"} {
		viper.BindPFlag("process."+flag, processCmd.Flags().Lookup(flag))
	}

	RootCmd.AddCommand(processCmd)
}
