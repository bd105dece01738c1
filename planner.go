package catalog

import (
	"github.com/xyzzy/untangle/internal/sizing"
)

// buildCounts carries the collector's actual, as-built occupancy for every
// section, independent of whatever capacity the section ends up allocated.
type buildCounts struct {
	num [sectionCount]uint32
}

// planSections decides, for every section, whether the output database
// rebuilds it from the collector's in-memory state, inherits it unchanged
// from an already-open input database, or copies its bytes across while
// still resizing the surrounding file. input is nil for a from-scratch
// build.
//
// The cascade applies, in order, for each section:
//
//  1. The transforms section is immutable and shared by every database of
//     this format version: inherit when an input exists, rebuild (once)
//     otherwise.
//  2. An index section is never inherited — it is cheap to regenerate and
//     --saveindex is the only thing that controls whether it is written
//     out at all, never whether it is reused byte for byte.
//  3. A data section inherits only when an input database exists, its
//     capacity already covers this build's occupancy, and (for the
//     imprint-bearing sections) no interleave was set explicitly.
//  4. Anything that doesn't inherit rebuilds, sized by raising the actual
//     occupancy by the configured growth ratio.
func planSections(input *header, counts buildCounts, cfg *buildConfig) []sectionPlan {
	plans := make([]sectionPlan, sectionCount)

	for s := sectionID(0); s < sectionCount; s++ {
		num := counts.num[s]
		plans[s] = sectionPlan{id: s, num: num}

		switch {
		case s == secTransforms:
			if input != nil {
				plans[s].place = placeInherit
				plans[s].num = input.Num[s]
				plans[s].max = input.Max[s]
			} else {
				plans[s].place = placeRebuild
				plans[s].max = num
			}
			continue

		case isIndexSection(s):
			plans[s].place = placeRebuild
			if cfg.saveIndex {
				// Each index section directly follows the data section it
				// indexes; size it from that section's occupancy.
				plans[s].indexSize = uint32(sizing.NextPrime(uint64(counts.num[s-1]) * 2))
			}
			continue
		}

		inheritable := input != nil &&
			input.Num[s] > 0 &&
			input.Max[s] >= num &&
			!interleaveChanged(s, cfg)

		if inheritable {
			plans[s].place = placeInherit
			plans[s].num = input.Num[s]
			plans[s].max = input.Max[s]
			continue
		}

		plans[s].place = placeRebuild
		plans[s].max = growthCapacity(s, num, cfg)
	}

	return plans
}

func isIndexSection(s sectionID) bool {
	switch s {
	case secSignatureIndex, secHintIndex, secImprintIndex, secMemberIndex, secPairIndex:
		return true
	}
	return false
}

// interleaveChanged reports whether s stores per-interleave data (imprints,
// hints) and the build set its interleave explicitly. An explicit setting
// counts as a change even when it equals the input database's; without
// one, Build takes the input's interleave, so nothing has changed.
func interleaveChanged(s sectionID, cfg *buildConfig) bool {
	switch s {
	case secImprints, secHints:
		return cfg.interleaveExplicit
	}
	return false
}

// growthCapacity raises num by the configured ratio, applying the
// section-specific explicit cap when the caller set one.
func growthCapacity(s sectionID, num uint32, cfg *buildConfig) uint32 {
	capped := sizing.RaisePercent(uint64(num), cfg.ratio)
	if explicit, ok := cfg.explicitMax[s]; ok && explicit > 0 {
		return explicit
	}
	if capped < uint64(num) {
		capped = uint64(num)
	}
	return uint32(capped)
}
