// catalogtool builds and inspects micro-fractal catalogue databases.
//
// Usage:
//
//	catalogtool <input.db> <numNodes> [<output.db>] [flags]
//
// With no output.db, the tool opens input.db read-only and, per --text,
// dumps one of its sections as plain text instead of building anything.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	catalog "github.com/xyzzy/untangle"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("catalogtool", flag.ContinueOnError)

	interleaveFlag := fs.Uint("interleave", 0, "interleave NumStored setting (0 = inherit or default)")
	maxSignature := fs.Uint("maxsignature", 0, "explicit signature section capacity")
	maxHint := fs.Uint("maxhint", 0, "explicit hint section capacity")
	maxImprint := fs.Uint("maximprint", 0, "explicit imprint section capacity")
	maxMember := fs.Uint("maxmember", 0, "explicit member section capacity")
	maxPair := fs.Uint("maxpair", 0, "explicit pair section capacity")
	ratio := fs.Float64("ratio", 0.25, "growth ratio applied when a section is rebuilt")
	pure := fs.Bool("pure", false, "QnTF-only normalisation")
	paranoid := fs.Bool("paranoid", false, "set the paranoid flag in the output header (no extra checks are run)")
	unsafe := fs.Bool("unsafe", false, "set the unsafe flag in the output header (changes nothing else)")
	saveIndex := fs.Bool("saveindex", false, "persist hash indices to the output database")
	sidFlag := fs.Uint("sid", 0, "lower bound of the signature window")
	windowFlag := fs.Uint("window", 0, "window width in signatures, 0 = unbounded")
	taskFlag := fs.String("task", "", "task partition as id,last (overrides SGE_TASK_ID/SGE_TASK_LAST)")
	truncate := fs.Bool("truncate", false, "on reaching a capacity bound, stop cleanly and write what was collected")
	textFlag := fs.String("text", "", "dump one of: signatures, members, pairs (hints and imprints are rejected)")
	timer := fs.Bool("timer", false, "passed to the build options; no timing is logged")
	verbose := fs.Bool("verbose", false, "passed to the build options; log output is unchanged")
	quiet := fs.Bool("quiet", false, "suppress non-error log output")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "usage: catalogtool <input.db> <numNodes> [<output.db>] [flags]")
		return 2
	}
	inputPath := rest[0]
	numNodes, err := strconv.Atoi(rest[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalogtool: invalid numNodes %q: %v\n", rest[1], err)
		return 2
	}
	outputPath := ""
	if len(rest) >= 3 {
		outputPath = rest[2]
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *quiet {
		logger.SetOutput(discardWriter{})
	}

	if outputPath == "" {
		return dumpText(logger, inputPath, *textFlag)
	}

	opts := []catalog.BuildOption{
		catalog.WithGrowthRatio(*ratio),
		catalog.WithPure(*pure),
		catalog.WithParanoid(*paranoid),
		catalog.WithUnsafe(*unsafe),
		catalog.WithSaveIndex(*saveIndex),
		catalog.WithTruncate(*truncate),
		catalog.WithTimer(*timer),
		catalog.WithVerbose(*verbose),
		catalog.WithQuiet(*quiet),
	}
	if *interleaveFlag != 0 {
		iv, ok := interleaveFor(uint32(*interleaveFlag))
		if !ok {
			fmt.Fprintf(os.Stderr, "catalogtool: %d is not a valid interleave setting\n", *interleaveFlag)
			return 2
		}
		opts = append(opts, catalog.WithInterleave(iv))
	}
	if *maxSignature != 0 {
		opts = append(opts, catalog.WithMaxSignature(uint32(*maxSignature)))
	}
	if *maxHint != 0 {
		opts = append(opts, catalog.WithMaxHint(uint32(*maxHint)))
	}
	if *maxImprint != 0 {
		opts = append(opts, catalog.WithMaxImprint(uint32(*maxImprint)))
	}
	if *maxMember != 0 {
		opts = append(opts, catalog.WithMaxMember(uint32(*maxMember)))
	}
	if *maxPair != 0 {
		opts = append(opts, catalog.WithMaxPair(uint32(*maxPair)))
	}
	if *windowFlag != 0 {
		opts = append(opts, catalog.WithWindow(uint32(*sidFlag), uint32(*sidFlag)+uint32(*windowFlag)))
	}
	if id, last, ok := taskPartition(*taskFlag); ok {
		opts = append(opts, catalog.WithTask(id, last))
	}

	effectiveInput := inputPath
	if _, err := os.Stat(inputPath); err != nil {
		effectiveInput = ""
	}

	generator := buildGenerator(effectiveInput, numNodes)

	stats, err := catalog.Build(outputPath, effectiveInput, generator, opts...)
	if err != nil {
		logger.Printf("build failed: %v", err)
		return 1
	}
	if stats.Truncated {
		fmt.Fprintf(os.Stderr, "catalogtool: build truncated at capacity, last candidate seen: %q\n", stats.TruncatedAt)
	}
	logger.Printf("signatures=%d members=%d pairs=%d safe=%d unsafe=%d empty=%d component=%d skipDuplicate=%d skipSize=%d skipUnsafe=%d",
		stats.NumSignatures, stats.NumMembers, stats.NumPairs, stats.NumSafe, stats.NumUnsafe, stats.NumEmpty, stats.NumComponent,
		stats.SkipDuplicate, stats.SkipSize, stats.SkipUnsafe)
	return 0
}

// interleaveFor resolves a requested NumStored value to one of the fixed
// allowed interleave settings.
func interleaveFor(numStored uint32) (catalog.Interleave, bool) {
	for _, iv := range catalog.AllowedInterleaves {
		if iv.NumStored == numStored {
			return iv, true
		}
	}
	return catalog.Interleave{}, false
}

// taskPartition resolves the task partition from --task, falling back to
// SGE_TASK_ID/SGE_TASK_LAST.
func taskPartition(flagVal string) (id, last int, ok bool) {
	if flagVal != "" {
		var a, b int
		if n, _ := fmt.Sscanf(flagVal, "%d,%d", &a, &b); n == 2 {
			return a, b, true
		}
	}
	idEnv := os.Getenv("SGE_TASK_ID")
	lastEnv := os.Getenv("SGE_TASK_LAST")
	if idEnv == "" || lastEnv == "" {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(idEnv)
	b, err2 := strconv.Atoi(lastEnv)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
