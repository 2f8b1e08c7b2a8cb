// trimato is a configurable sequencing-read trimming pipeline: it locates
// adapter contamination (via a bounded-error aligner or a paired-end insert
// aligner), applies a configurable modifier chain (quality trimming,
// unconditional cuts, bisulfite presets, ...), classifies each read/pair
// through an ordered filter chain, and writes the result through routed
// output sinks.
//
// trimato can be invoked with a JSON configuration file:
//
//	trimato --config=run.json
//
// See config.Config for the full set of configuration parameters.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kshedden/trimato/adapter"
	"github.com/kshedden/trimato/align"
	"github.com/kshedden/trimato/config"
	"github.com/kshedden/trimato/filters"
	"github.com/kshedden/trimato/insertalign"
	"github.com/kshedden/trimato/iupac"
	"github.com/kshedden/trimato/modifiers"
	"github.com/kshedden/trimato/pipeline"
	"github.com/kshedden/trimato/seqio"
	"github.com/kshedden/trimato/sinks"
	"github.com/kshedden/trimato/stats"
)

var configFilePath string

func init() {
	flag.StringVar(&configFilePath, "config", "", "path to a JSON configuration file")
}

func main() {
	flag.Parse()
	if configFilePath == "" {
		fmt.Fprintln(os.Stderr, "trimato: --config is required")
		os.Exit(2)
	}

	cfg, err := config.ReadConfig(configFilePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := log.New(os.Stderr, "trimato: ", log.Ltime)

	stopProfile := pipeline.StartProfile(os.Getenv("TRIMATO_PROFILE") != "", ".")
	defer stopProfile()

	reader, closeReader, err := buildReader(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
	defer closeReader()

	newChain, err := buildChainFactory(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fchain := buildFilterChain(cfg)
	formatters, err := buildFormatters(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	params := &pipeline.Params{
		Reader:          reader,
		NewChain:        newChain,
		FilterChain:     fchain,
		Formatters:      formatters,
		Logger:          logger,
		BatchSize:       cfg.BatchSize,
		ReadQueueSize:   cfg.ReadQueueSize,
		ResultQueueSize: cfg.ResultQueueSize,
		NumWorkers:      cfg.NumWorkers,
		PreserveOrder:   cfg.PreserveOrder,
		ProcessTimeout:  cfg.ProcessTimeout,
		WriterProcess:   cfg.WriterProcess,
		Merger:          buildMerger(cfg),
	}

	var runErr error
	if cfg.NumWorkers <= 1 {
		s, err := pipeline.RunSerial(params)
		if err == nil {
			logger.Printf("done: %d pairs, %d reads", s.TotalPairs, s.TotalReads)
		}
		runErr = err
	} else {
		s, err := pipeline.RunParallel(params)
		if err == nil {
			logger.Printf("done: %d pairs, %d reads", s.TotalPairs, s.TotalReads)
		}
		runErr = err
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		if perr, ok := runErr.(*pipeline.Error); ok {
			os.Exit(perr.ExitCode())
		}
		os.Exit(1)
	}
}

func buildReader(cfg *config.Config) (*seqio.BatchReader, func(), error) {
	f1, err := os.Open(cfg.ReadFileName1)
	if err != nil {
		return nil, func() {}, fmt.Errorf("trimato: opening %q: %w", cfg.ReadFileName1, err)
	}
	codec1, br1, err := seqio.SniffCodec(f1)
	if err != nil {
		f1.Close()
		return nil, func() {}, err
	}
	dec1, err := seqio.Decompress(codec1, br1)
	if err != nil {
		f1.Close()
		return nil, func() {}, err
	}

	var rr1 seqio.RecordReader
	if cfg.InputFormat == "fasta" {
		rr1 = seqio.NewFastaReader(dec1, nil)
	} else {
		rr1 = seqio.NewFastqReader(dec1, cfg.QualityBase)
	}

	closers := []func(){func() { f1.Close() }}

	var rr2 seqio.RecordReader
	if cfg.ReadFileName2 != "" && !cfg.Interleaved {
		f2, err := os.Open(cfg.ReadFileName2)
		if err != nil {
			f1.Close()
			return nil, func() {}, fmt.Errorf("trimato: opening %q: %w", cfg.ReadFileName2, err)
		}
		codec2, br2, err := seqio.SniffCodec(f2)
		if err != nil {
			f1.Close()
			f2.Close()
			return nil, func() {}, err
		}
		dec2, err := seqio.Decompress(codec2, br2)
		if err != nil {
			f1.Close()
			f2.Close()
			return nil, func() {}, err
		}
		if cfg.InputFormat == "fasta" {
			rr2 = seqio.NewFastaReader(dec2, nil)
		} else {
			rr2 = seqio.NewFastqReader(dec2, cfg.QualityBase)
		}
		closers = append(closers, func() { f2.Close() })
	}

	br := seqio.NewBatchReader(rr1, rr2, cfg.Interleaved, cfg.BatchSize)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return br, closeAll, nil
}

func whereFromString(s string) align.Where {
	switch s {
	case "FRONT":
		return align.Front
	case "BACK":
		return align.Back
	case "ANYWHERE":
		return align.Anywhere
	case "PREFIX":
		return align.Prefix
	case "SUFFIX":
		return align.Suffix
	default:
		return align.Back
	}
}

func buildAdapter(spec config.AdapterSpec, wc iupac.Policy) *adapter.Adapter {
	a := &adapter.Adapter{
		Name:          spec.Name,
		Sequence:      spec.Sequence,
		Where:         whereFromString(spec.Where),
		MaxErrorRate:  spec.MaxErrorRate,
		MinOverlap:    spec.MinOverlap,
		IndelsAllowed: spec.IndelsAllowed,
		IndelCost:     spec.IndelCost,
		MaxRMP:        spec.MaxRMP,
		Wildcards:     wc,
		Linked:        spec.Linked,
		Required:      spec.Required,
	}
	if spec.Linked && spec.Front != nil && spec.Back != nil {
		front := buildAdapter(*spec.Front, wc)
		back := buildAdapter(*spec.Back, wc)
		a.Front, a.Back = front, back
	}
	// Seed-screen every adapter so the Back/Anywhere fast-reject path
	// (SPEC_FULL.md §4.1) actually runs in production, not just in tests;
	// EnableSeedScreen narrows the seed width to each adapter's own
	// MinOverlap/MaxErrorRate so it stays sound.
	a.EnableSeedScreen(8)
	return a
}

func actionFromString(s string) modifiers.Action {
	switch s {
	case "mask":
		return modifiers.ActionMask
	case "lowercase":
		return modifiers.ActionLowercase
	case "none":
		return modifiers.ActionNone
	default:
		return modifiers.ActionTrim
	}
}

// buildChainFactory returns a closure that builds one fresh Chain (and its
// underlying per-worker modifier set) per call, following spec.md §5's
// "per-worker duplication of modifiers" (cheap clone at worker start).
func buildChainFactory(cfg *config.Config, logger *log.Logger) (func() *modifiers.Chain, error) {
	wc := iupac.Policy{ReadWildcards: true, AdapterWildcards: true}

	pairedModeFromConfig := cfg.PairedMode

	build := func() (*modifiers.Chain, error) {
		var registered []modifiers.Modifier

		for _, length := range cfg.CutLengths {
			registered = append(registered, modifiers.NewUnconditionalCutter(length, modifiers.MateBoth))
		}

		if cfg.BisulfitePreset != "" {
			r1, r2, err := modifiers.BisulfitePreset(cfg.BisulfitePreset)
			if err != nil {
				return nil, err
			}
			registered = append(registered, r1, r2)
		} else if cfg.MinCutFront > 0 || cfg.MinCutBack > 0 {
			registered = append(registered, modifiers.NewMinCutter(cfg.MinCutFront, cfg.MinCutBack, modifiers.MateBoth))
		}

		if cfg.NextseqCutoff > 0 {
			registered = append(registered, modifiers.NewNextseqQualityTrimmer(cfg.NextseqCutoff, modifiers.MateBoth))
		}
		if cfg.QualityCutoffFront > 0 || cfg.QualityCutoffBack > 0 {
			registered = append(registered, modifiers.NewQualityTrimmer(cfg.QualityCutoffFront, cfg.QualityCutoffBack, modifiers.MateBoth))
		}

		action := actionFromString(cfg.AdapterAction)
		if cfg.AlignerChoice == "insert" && len(cfg.Adapters) >= 1 {
			var a1, a2 []byte
			if len(cfg.Adapters) >= 1 {
				a1 = []byte(cfg.Adapters[0].Sequence)
			}
			if len(cfg.Adapters) >= 2 {
				a2 = []byte(cfg.Adapters[1].Sequence)
			}
			opts := insertalign.Options{
				MinOverlap:             cfg.InsertMinOverlap,
				MaxInsertMismatchFrac:  cfg.InsertMaxMismatch,
				MaxAdapterMismatchFrac: cfg.InsertAdapterMaxMM,
				InsertMaxRMP:           cfg.InsertMaxRMP,
				Wildcards:              wc,
			}
			registered = append(registered, modifiers.NewInsertAdapterCutter(opts, a1, a2, action, logger))
		} else {
			for _, spec := range cfg.Adapters {
				a := buildAdapter(spec, wc)
				if err := a.Validate(); err != nil {
					return nil, err
				}
				registered = append(registered, modifiers.NewAdapterCutter(a, action, modifiers.MateBoth, logger))
			}
		}

		registered = append(registered, modifiers.NewNEndTrimmer(modifiers.MateBoth))

		if cfg.PrefixAdd != "" || cfg.SuffixAdd != "" {
			registered = append(registered, modifiers.NewPrefixSuffixAdder(cfg.PrefixAdd, cfg.SuffixAdd, modifiers.MateBoth))
		}
		if cfg.LengthTag != "" {
			registered = append(registered, modifiers.NewLengthTagModifier(cfg.LengthTag, modifiers.MateBoth))
		}
		if cfg.StripSuffix != "" {
			registered = append(registered, modifiers.NewSuffixRemover(cfg.StripSuffix, modifiers.MateBoth))
		}

		plan, err := modifiers.CompilePlan(cfg.OpOrder, registered)
		if err != nil {
			return nil, err
		}
		return modifiers.NewChain(plan, pairedModeFromConfig, logger), nil
	}

	// Build once up front purely to surface configuration errors before
	// the pipeline starts (spec.md §7: configuration errors are
	// "reported once and terminate before the pipeline starts").
	if _, err := build(); err != nil {
		return nil, err
	}
	return func() *modifiers.Chain {
		c, err := build()
		if err != nil {
			// Unreachable: build() already validated once above with
			// the same cfg.
			panic(err)
		}
		return c
	}, nil
}

// buildMerger wires modifiers.MergeOverlapping to insertalign.Align, the
// insert-aligner offset/overlap computation the plain Modifier interface
// has no way to carry (spec.md §4.3's MergeOverlapping).
func buildMerger(cfg *config.Config) func(pair *seqio.ReadPair, s *stats.Summary) (*seqio.Read, bool) {
	if !cfg.MergeOverlapping {
		return nil
	}
	wc := iupac.Policy{ReadWildcards: true, AdapterWildcards: true}
	merger := modifiers.NewMergeOverlapping(cfg.MergeMinOverlap, cfg.MergeMaxMismatch)
	opts := insertalign.Options{
		MinOverlap:            cfg.MergeMinOverlap,
		MaxInsertMismatchFrac: 1.0,
		Wildcards:             wc,
	}
	return func(pair *seqio.ReadPair, s *stats.Summary) (*seqio.Read, bool) {
		res, ok := insertalign.Align(pair.R1, pair.R2, nil, nil, opts)
		if !ok {
			return nil, false
		}
		bucket := s.Modifier("MergeOverlapping")
		return merger.Merge(pair, res.Offset, res.Overlap, res.Mismatches, bucket)
	}
}

func buildFilterChain(cfg *config.Config) *filters.Chain {
	var fs []filters.Filter
	if cfg.MinLength > 0 {
		fs = append(fs, &filters.TooShortFilter{MinLength: cfg.MinLength})
	}
	if cfg.MaxLength > 0 {
		fs = append(fs, &filters.TooLongFilter{MaxLength: cfg.MaxLength})
	}
	if cfg.MaxNFraction > 0 {
		fs = append(fs, &filters.NContentFilter{MaxN: cfg.MaxNFraction, MaxNIsCount: cfg.MaxNIsCount})
	}
	if cfg.LowComplexityMinDinucs > 0 {
		fs = append(fs, &filters.LowComplexityFilter{
			MinLength:         cfg.LowComplexityMinLength,
			MinDistinctDinucs: cfg.LowComplexityMinDinucs,
		})
	}
	if cfg.DiscardUntrimmed {
		fs = append(fs, &filters.UntrimmedFilter{})
	}
	fs = append(fs, &filters.TrimmedFilter{})
	return filters.NewChain(fs, filters.PairMode(cfg.PairFilterMode), cfg.DiscardTrimmed)
}

func outputFormat(cfg *config.Config) sinks.Format {
	if cfg.OutputFormat == "fasta" {
		return sinks.FormatFasta
	}
	return sinks.FormatFastq
}

func buildFormatters(cfg *config.Config) (*sinks.Formatters, error) {
	format := outputFormat(cfg)
	interleaved := cfg.OutputInterleaved

	mkPair := func(path1, path2 string) sinks.SinkPair {
		if path1 == "" {
			return sinks.SinkPair{}
		}
		sp := sinks.SinkPair{R1: sinks.NewSink("r1", path1, format, interleaved)}
		if path2 != "" && !interleaved {
			sp.R2 = sinks.NewSink("r2", path2, format, interleaved)
		}
		return sp
	}

	defaultSink := mkPair(cfg.MainOutput1, cfg.MainOutput2)
	if defaultSink.R1 == nil {
		return nil, fmt.Errorf("trimato: output_1 must be configured")
	}

	byKind := make(map[filters.Kind]sinks.SinkPair)
	if cfg.UntrimmedOut != "" {
		byKind[filters.KindUntrimmed] = mkPair(cfg.UntrimmedOut, "")
	}
	if cfg.TooShortOut != "" {
		byKind[filters.KindTooShort] = mkPair(cfg.TooShortOut, "")
	}
	if cfg.TooLongOut != "" {
		byKind[filters.KindTooLong] = mkPair(cfg.TooLongOut, "")
	}
	if cfg.LowComplexityOut != "" {
		byKind[filters.KindLowComplexity] = mkPair(cfg.LowComplexityOut, "")
	}
	if cfg.MergedOut != "" {
		byKind[filters.KindMergedRead] = mkPair(cfg.MergedOut, "")
	}
	if cfg.RestOut != "" {
		byKind[filters.KindTrimmed] = mkPair(cfg.RestOut, "")
	}

	return sinks.NewFormatters(byKind, defaultSink), nil
}
