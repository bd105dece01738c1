// Package catalog builds and maintains an on-disk catalogue of small Boolean
// expression structures ("micro-fractals"): every unique normalised
// expression tree of up to N internal operator nodes over a fixed alphabet
// of up to 9 input variables, organised into signature groups (canonical
// equivalence classes under input relabelling and negation) together with
// the set of distinct concrete trees (members) that inhabit each group.
//
// # Layout
//
//   - Micro-tree, normalisation, parsing and evaluation: tree.go, parse.go,
//     encode.go, eval.go, ref.go.
//   - Footprints and the transform table: footprint.go, transform.go.
//   - The database container (sections, header, mmap): section.go,
//     dbwriter.go, db.go.
//   - The associative imprint index: imprint.go.
//   - The section planner and populator: planner.go, populator.go.
//   - The member engine and finaliser: member.go, headtail.go, pair.go,
//     collector_finalize.go.
//   - Record encode/decode for every section: record.go.
//   - Build configuration and orchestration: options.go, build.go,
//     generator.go.
//
// Platform-specific file preallocation and prefaulting live in
// fallocate_*.go, fadvise_*.go and prefault_*.go. The CLI front end lives
// under cmd/catalogtool.
package catalog
