package catalog

import "testing"

func TestPartitionCandidateSingleTaskAcceptsEverything(t *testing.T) {
	cfg := defaultBuildConfig()
	names := []string{"ab&", "abc?", "xyz", ""}
	for _, n := range names {
		if !cfg.partitionCandidate(n) {
			t.Fatalf("a single-task config should accept every candidate, rejected %q", n)
		}
	}
}

func TestPartitionCandidatePartitionsExhaustively(t *testing.T) {
	const taskLast = 4
	names := []string{"ab&", "ab+", "ab^", "ab>", "ab<", "abc?", "abc!", "a", "b", "c", "0"}

	seen := make(map[string]int)
	for id := 1; id <= taskLast; id++ {
		cfg := defaultBuildConfig()
		WithTask(id, taskLast)(cfg)
		for _, n := range names {
			if cfg.partitionCandidate(n) {
				seen[n]++
			}
		}
	}
	for _, n := range names {
		if seen[n] != 1 {
			t.Fatalf("candidate %q was claimed by %d tasks (of %d), want exactly 1", n, seen[n], taskLast)
		}
	}
}

func TestInWindowWithoutWindowAcceptsEverything(t *testing.T) {
	cfg := defaultBuildConfig()
	if !cfg.inWindow(0) || !cfg.inWindow(1<<20) {
		t.Fatal("inWindow should accept any sid when no window was requested")
	}
}

func TestInWindowRespectsBounds(t *testing.T) {
	cfg := defaultBuildConfig()
	WithWindow(10, 20)(cfg)
	if cfg.inWindow(9) || cfg.inWindow(20) {
		t.Fatal("inWindow should exclude sids outside [lo, hi)")
	}
	if !cfg.inWindow(10) || !cfg.inWindow(19) {
		t.Fatal("inWindow should include the boundary sids within [lo, hi)")
	}
}

func TestWithMaxOptionsSetExplicitCaps(t *testing.T) {
	cfg := defaultBuildConfig()
	WithMaxSignature(1000)(cfg)
	WithMaxMember(2000)(cfg)
	WithMaxPair(3000)(cfg)
	if cfg.explicitMax[secSignatures] != 1000 {
		t.Fatalf("explicitMax[secSignatures] = %d, want 1000", cfg.explicitMax[secSignatures])
	}
	if cfg.explicitMax[secMembers] != 2000 {
		t.Fatalf("explicitMax[secMembers] = %d, want 2000", cfg.explicitMax[secMembers])
	}
	if cfg.explicitMax[secPairs] != 3000 {
		t.Fatalf("explicitMax[secPairs] = %d, want 3000", cfg.explicitMax[secPairs])
	}
}
