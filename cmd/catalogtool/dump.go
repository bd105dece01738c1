package main

import (
	"fmt"
	"log"
	"os"

	catalog "github.com/xyzzy/untangle"
)

// dumpText opens inputPath read-only and writes its signatures, members or
// pairs to stdout one per line, or a one-line summary when mode is empty.
// The hints and imprints modes are not supported and return an error.
func dumpText(logger *log.Logger, inputPath, mode string) int {
	db, err := catalog.Open(inputPath)
	if err != nil {
		logger.Printf("open %s: %v", inputPath, err)
		return 1
	}
	defer db.Close()

	if err := db.Verify(); err != nil {
		logger.Printf("verify %s: %v", inputPath, err)
		return 1
	}

	switch mode {
	case "signatures":
		for sid := uint32(1); sid < db.NumSignatures()+1; sid++ {
			sig := db.Signature(sid)
			fmt.Printf("%d\t%s\tsize=%d safe=%v\n", sid, sig.Name, sig.Size, sig.Safe())
		}
	case "members":
		for mid := uint32(1); mid < db.NumMembers()+1; mid++ {
			m := db.Member(mid)
			fmt.Printf("%d\t%s\tsid=%d tid=%d size=%d safe=%v\n", mid, m.Name, m.SID, m.TID, m.Size, m.Safe())
		}
	case "pairs":
		for pid := uint32(1); pid < db.NumPairs()+1; pid++ {
			p := db.Pair(pid)
			fmt.Printf("%d\tmember=%d transform=%d\n", pid, p.MemberID, p.TransformID)
		}
	case "hints", "imprints":
		fmt.Fprintf(os.Stderr, "catalogtool: --text=%s dump not supported without a saved index\n", mode)
		return 1
	case "":
		st := db.Stats()
		fmt.Printf("signatures=%d members=%d pairs=%d interleave=%d/%d filesize=%d\n",
			db.NumSignatures(), db.NumMembers(), db.NumPairs(),
			st.Interleave.NumStored, st.Interleave.Step, st.FileSize)
	default:
		fmt.Fprintf(os.Stderr, "catalogtool: unknown --text mode %q\n", mode)
		return 2
	}
	return 0
}
