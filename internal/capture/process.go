package capture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cbrackley/capC-MAP/config"
	"github.com/cbrackley/capC-MAP/internal/bed"
	"github.com/cbrackley/capC-MAP/internal/genome"
	"github.com/cbrackley/capC-MAP/internal/samfrag"
	"github.com/sirupsen/logrus"
)

// Processor classifies read sets one at a time, counts them and writes the
// reporters of accepted sets
type Processor struct {
	classifier *Classifier
	counts     *Counters
	out        *Outputs
	rng        *rand.Rand
}

// NewProcessor returns a Processor. The interchromosomal reporter of each
// OnlyInter set is picked at random from a source seeded with seed, or with
// the clock if seed is 0.
func NewProcessor(classifier *Classifier, counts *Counters, out *Outputs, seed int64) *Processor {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Processor{
		classifier: classifier,
		counts:     counts,
		out:        out,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Process classifies a read set and records the result
func (p *Processor) Process(set samfrag.ReadSet) (Outcome, error) {
	res, err := p.classifier.Classify(set)
	if err != nil {
		return 0, err
	}
	p.counts.Record(len(set), res)

	switch res.Outcome {
	case Valid:
		// the middle of the run of adjacent reporters stands for all of them
		mid := res.Reporters[len(res.Reporters)/2]
		if err := p.out.WritePair(res.Target.Name, mid); err != nil {
			return res.Outcome, err
		}
	case OnlyInter:
		if !p.out.SavesInter() {
			break
		}
		pick := res.Inter[p.rng.Intn(len(res.Inter))]
		if err := p.out.WriteInter(res.Target.Name, pick); err != nil {
			return res.Outcome, err
		}
	}

	return res.Outcome, nil
}

// Counts returns the Processor's counters
func (p *Processor) Counts() *Counters {
	return p.counts
}

// Run is the whole capture analysis: load the fragments and targets, parse
// the SAM file read set by read set, then write the interaction counts and
// report next to the per-target pairs files.
func Run(conf *config.Config, log logrus.FieldLogger) (counts *Counters, err error) {
	pc := conf.Process

	// fail before doing any work if the summaries couldn't be written
	for _, path := range []string{InteractionCountsPath(pc.Out), ReportPath(pc.Out)} {
		if bed.Exists(path) {
			return nil, fmt.Errorf("file %s %w", path, bed.ErrFileExists)
		}
	}

	index, err := genome.LoadFragmentsFile(pc.Fragments, log)
	if err != nil {
		return nil, err
	}

	targets, err := genome.LoadTargetsFile(pc.Targets, index, log)
	if err != nil {
		return nil, err
	}

	counts, err = NewCounters(targets)
	if err != nil {
		return nil, err
	}

	classifier, err := NewClassifier(index, targets, pc.Exclusion)
	if err != nil {
		return nil, err
	}

	out, err := OpenOutputs(pc.Out, targets.Names(), pc.SaveInter)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output files: %w", cerr)
		}
	}()

	sam, err := samfrag.OpenGrouper(pc.Alignments, conf.Marker)
	if err != nil {
		return nil, err
	}
	defer sam.Close()

	proc := NewProcessor(classifier, counts, out, pc.Seed)
	for sam.Next() {
		if _, err := proc.Process(sam.Set()); err != nil {
			return nil, err
		}
	}
	if err := sam.Err(); err != nil {
		return nil, err
	}
	log.Infof("...Parsed %d reads from SAM file %s", counts.ReadSets, pc.Alignments)
	log.Debugf("%d distinct read sets in the duplicate table", classifier.Dedup().Len())

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close output files: %w", err)
	}

	if err := counts.WriteInteractionCountsFile(InteractionCountsPath(pc.Out)); err != nil {
		return nil, err
	}
	if err := counts.WriteReportFile(ReportPath(pc.Out)); err != nil {
		return nil, err
	}
	log.Infof("...Report written to file %s", ReportPath(pc.Out))

	return counts, nil
}
