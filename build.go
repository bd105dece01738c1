package catalog

import (
	"errors"
	"fmt"

	catalogerrors "github.com/xyzzy/untangle/errors"
	"golang.org/x/sync/errgroup"
)

// errBuildTruncated signals that the generator closure stopped the scan on
// purpose because WithTruncate is set and a resource bound was hit; Build
// treats it as a clean stop rather than a failure.
var errBuildTruncated = errors.New("catalog: build: truncated by resource bound")

// Generator is supplied by the caller to enumerate candidate trees: it
// calls offer once per candidate, in whatever order it chooses. When offer
// returns a non-nil error the generator stops the scan and returns that
// error.
type Generator func(offer func(tree *Tree, name string, numPlaceholder, numEndpoint, numBackRef uint8) error) error

// Build runs a full collection + finalisation + write pass: it constructs
// a Collector, drives generate over it via Offer, finalises the result and
// writes it to outputPath. inputPath may be empty for a from-scratch
// build, or name an existing database whose sections this build extends.
func Build(outputPath, inputPath string, generate Generator, opts ...BuildOption) (*FinalizeStats, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var input *DB
	if inputPath != "" {
		var err error
		input, err = Open(inputPath)
		if err != nil {
			return nil, fmt.Errorf("open input database: %w", err)
		}
		defer input.Close()
		if !cfg.interleaveExplicit {
			cfg.interleave = input.Interleave()
		}
	}

	c := NewCollector(cfg.pure, cfg.interleave, maxCapacity(cfg, secSignatures, input, 1<<16),
		maxCapacity(cfg, secMembers, input, 1<<18), maxCapacity(cfg, secPairs, input, 1<<18))

	if input != nil {
		if err := c.SeedFromInput(input); err != nil {
			return nil, fmt.Errorf("seed collector from input database: %w", err)
		}
	}

	var truncatedAt string
	genErr := generate(func(tree *Tree, name string, numPlaceholder, numEndpoint, numBackRef uint8) error {
		if !cfg.partitionCandidate(name) {
			return nil
		}
		_, offerErr := c.Offer(tree, name, numPlaceholder, numEndpoint, numBackRef)
		if offerErr != nil {
			if cfg.truncate && errors.Is(offerErr, catalogerrors.ErrIndexOverflow) {
				truncatedAt = name
				return errBuildTruncated
			}
			return offerErr
		}
		return nil
	})
	if genErr != nil && !errors.Is(genErr, errBuildTruncated) {
		return nil, genErr
	}

	stats, err := c.Finalize()
	if err != nil {
		return nil, err
	}
	if truncatedAt != "" {
		stats.Truncated = true
		stats.TruncatedAt = truncatedAt
	}

	if err := writeDatabase(outputPath, c, input, cfg); err != nil {
		return nil, err
	}

	return stats, nil
}

// BuildPartitions runs taskLast independent Build passes concurrently, one
// per grid-engine-style task window, each against its own Collector and its
// own output file (outputFor(taskID) names it). A Collector is not
// safe for concurrent Offer calls, so partitions never share one; this is
// the in-process equivalent of launching SGE_TASK_LAST separate array jobs
// and is meant for local testing of a partitioned build, not for replacing
// a real grid-engine submission.
func BuildPartitions(outputFor func(taskID int) string, inputPath string, generate Generator, taskLast int, opts ...BuildOption) ([]*FinalizeStats, error) {
	stats := make([]*FinalizeStats, taskLast)
	var g errgroup.Group
	for i := 0; i < taskLast; i++ {
		i := i
		taskID := i + 1
		g.Go(func() error {
			taskOpts := make([]BuildOption, len(opts), len(opts)+1)
			copy(taskOpts, opts)
			taskOpts = append(taskOpts, WithTask(taskID, taskLast))
			s, err := Build(outputFor(taskID), inputPath, generate, taskOpts...)
			if err != nil {
				return fmt.Errorf("partition %d/%d: %w", taskID, taskLast, err)
			}
			stats[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func maxCapacity(cfg *buildConfig, s sectionID, input *DB, fallback uint32) uint32 {
	if explicit, ok := cfg.explicitMax[s]; ok && explicit > 0 {
		return explicit
	}
	if input != nil && input.hdr.Max[s] > 0 {
		return input.hdr.Max[s]
	}
	return fallback
}

func writeDatabase(outputPath string, c *Collector, input *DB, cfg *buildConfig) error {
	counts := buildCounts{}
	counts.num[secTransforms] = uint32(Transforms().Count())
	counts.num[secSignatures] = uint32(len(c.signatures) - 1)
	counts.num[secMembers] = uint32(len(c.members) - 1)
	counts.num[secPairs] = uint32(c.pairs.Len() - 1)

	var inputHdr *header
	if input != nil {
		inputHdr = input.hdr
	}
	plans := planSections(inputHdr, counts, cfg)

	flags := uint32(0)
	if cfg.pure {
		flags |= flagPure
	}
	if cfg.paranoid {
		flags |= flagParanoid
	}
	if cfg.unsafe {
		flags |= flagUnsafe
	}
	if cfg.saveIndex {
		flags |= flagSaveIndex
	}

	w, err := createDBWriter(outputPath, plans, flags, c.interleave)
	if err != nil {
		return err
	}
	if err := populateSections(w, plans, c, input); err != nil {
		w.close()
		return err
	}
	return w.finalize()
}
