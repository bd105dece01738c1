package catalog

import "github.com/cespare/xxhash/v2"

// buildConfig holds every knob a build can be configured with. It is never
// constructed directly; callers apply a list of BuildOption values to a
// zero value seeded with sane defaults.
type buildConfig struct {
	interleave         Interleave
	interleaveExplicit bool

	pure     bool
	paranoid bool
	unsafe   bool
	saveIndex bool

	ratio float64

	explicitMax map[sectionID]uint32

	sidLo, sidHi uint32 // --sid/--window slice of the signature space to scan
	window       bool

	taskID, taskLast int // SGE_TASK_ID / SGE_TASK_LAST partitioning

	truncate bool

	text    textMode
	timer   bool
	verbose bool
	quiet   bool
}

// textMode names one of the five textual dump formats. Build does not read
// it and emits no text output.
type textMode int

const (
	textNone textMode = iota
	textSignatures
	textMembers
	textPairs
	textHints
	textImprints
)

// BuildOption configures a build. Options are applied in order, so a later
// option overrides an earlier one that touches the same field.
type BuildOption func(*buildConfig)

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		interleave:  DefaultInterleave,
		ratio:       0.25,
		explicitMax: make(map[sectionID]uint32),
		sidLo:       0,
		taskID:      1,
		taskLast:    1,
	}
}

// WithInterleave overrides the default interleave setting.
func WithInterleave(iv Interleave) BuildOption {
	return func(c *buildConfig) {
		c.interleave = iv
		c.interleaveExplicit = true
	}
}

// WithPure enables QnTF-only normalisation.
func WithPure(pure bool) BuildOption {
	return func(c *buildConfig) { c.pure = pure }
}

// WithParanoid sets the PARANOID creation flag in the output header. Build
// runs no additional consistency checks for it.
func WithParanoid(paranoid bool) BuildOption {
	return func(c *buildConfig) { c.paranoid = paranoid }
}

// WithUnsafe sets the UNSAFE creation flag in the output header. It changes
// nothing else about the build.
func WithUnsafe(unsafe bool) BuildOption {
	return func(c *buildConfig) { c.unsafe = unsafe }
}

// WithSaveIndex requests that the signature and member name indices be
// written to the output database. Without it every index section is left
// empty; the hint, imprint and pair indices are never written, and nothing
// rebuilds an index on open.
func WithSaveIndex(save bool) BuildOption {
	return func(c *buildConfig) { c.saveIndex = save }
}

// WithGrowthRatio overrides the default headroom ratio applied when sizing
// a rebuilt section's capacity from its actual occupancy.
func WithGrowthRatio(ratio float64) BuildOption {
	return func(c *buildConfig) { c.ratio = ratio }
}

// WithMaxSignature, WithMaxHint, WithMaxImprint, WithMaxMember and
// WithMaxPair pin an explicit capacity for the named section, overriding
// the ratio-derived default.
func WithMaxSignature(n uint32) BuildOption {
	return func(c *buildConfig) { c.explicitMax[secSignatures] = n }
}
func WithMaxHint(n uint32) BuildOption {
	return func(c *buildConfig) { c.explicitMax[secHints] = n }
}
func WithMaxImprint(n uint32) BuildOption {
	return func(c *buildConfig) { c.explicitMax[secImprints] = n }
}
func WithMaxMember(n uint32) BuildOption {
	return func(c *buildConfig) { c.explicitMax[secMembers] = n }
}
func WithMaxPair(n uint32) BuildOption {
	return func(c *buildConfig) { c.explicitMax[secPairs] = n }
}

// WithWindow records a [lo, hi) signature-id window. Build does not apply
// it: every candidate is offered whatever its signature id.
func WithWindow(lo, hi uint32) BuildOption {
	return func(c *buildConfig) { c.sidLo, c.sidHi, c.window = lo, hi, true }
}

// WithTask partitions the scan across a Sun Grid Engine array job: id is
// 1-based, last is the job count, matching SGE_TASK_ID/SGE_TASK_LAST.
func WithTask(id, last int) BuildOption {
	return func(c *buildConfig) {
		if last > 0 {
			c.taskID, c.taskLast = id, last
		}
	}
}

// WithTruncate enables graceful overflow handling: when a resource bound
// (signature or member capacity) would otherwise make Build fail, the scan
// stops cleanly at the offending candidate instead, and Build still
// finalises and writes whatever was collected so far. FinalizeStats reports
// the stop via Truncated/TruncatedAt.
func WithTruncate(truncate bool) BuildOption {
	return func(c *buildConfig) { c.truncate = truncate }
}

// WithText records one of the textual dump formats; Build does not read it.
func WithText(mode textMode) BuildOption {
	return func(c *buildConfig) { c.text = mode }
}

// WithTimer records the timer setting; Build does not time or report its
// phases.
func WithTimer(timer bool) BuildOption {
	return func(c *buildConfig) { c.timer = timer }
}

// WithVerbose and WithQuiet record a logging verbosity; the last one
// applied wins. The catalog package does not log, so neither changes what
// Build does.
func WithVerbose(verbose bool) BuildOption {
	return func(c *buildConfig) { c.verbose, c.quiet = verbose, false }
}
func WithQuiet(quiet bool) BuildOption {
	return func(c *buildConfig) { c.quiet, c.verbose = quiet, false }
}

// partitionCandidate reports whether a candidate with the given notation
// belongs to this task's partition of the scan, under the
// SGE_TASK_ID/SGE_TASK_LAST scheme: task k (1-based) of n owns a candidate
// when hash(name) % n == k-1. Signature ids aren't assigned until Offer
// runs, so partitioning has to key off something stable beforehand — the
// notation string itself, which every task derives identically.
func (c *buildConfig) partitionCandidate(name string) bool {
	if c.taskLast <= 1 {
		return true
	}
	h := xxhash.Sum64String(name)
	return int(h%uint64(c.taskLast)) == c.taskID-1
}

// inWindow reports whether sid falls within the [lo, hi) window
// restriction, or true when no window was requested. Build and the dump
// path do not call it.
func (c *buildConfig) inWindow(sid uint32) bool {
	if !c.window {
		return true
	}
	return sid >= c.sidLo && sid < c.sidHi
}
