package catalog

import "testing"

func TestPlanSectionsFromScratch(t *testing.T) {
	cfg := defaultBuildConfig()
	counts := buildCounts{}
	counts.num[secSignatures] = 100
	counts.num[secMembers] = 200
	counts.num[secPairs] = 50

	plans := planSections(nil, counts, cfg)

	if plans[secTransforms].place != placeRebuild {
		t.Fatalf("transforms section should rebuild from scratch, got %v", plans[secTransforms].place)
	}
	if plans[secSignatures].place != placeRebuild {
		t.Fatalf("signatures should rebuild with no input, got %v", plans[secSignatures].place)
	}
	if plans[secSignatures].max < counts.num[secSignatures] {
		t.Fatalf("rebuilt capacity %d should be at least the occupancy %d", plans[secSignatures].max, counts.num[secSignatures])
	}
}

func TestPlanSectionsInheritsWhenInputCovers(t *testing.T) {
	cfg := defaultBuildConfig()
	input := &header{}
	input.Num[secSignatures] = 100
	input.Max[secSignatures] = 500

	counts := buildCounts{}
	counts.num[secSignatures] = 80 // less than the input's existing occupancy

	plans := planSections(input, counts, cfg)
	if plans[secSignatures].place != placeInherit {
		t.Fatalf("signatures should inherit when input already covers the need, got %v", plans[secSignatures].place)
	}
	if plans[secSignatures].max != input.Max[secSignatures] {
		t.Fatalf("inherited capacity should carry the input's max, got %d want %d", plans[secSignatures].max, input.Max[secSignatures])
	}
}

func TestPlanSectionsRebuildsWhenInputTooSmall(t *testing.T) {
	cfg := defaultBuildConfig()
	input := &header{}
	input.Num[secSignatures] = 10
	input.Max[secSignatures] = 20

	counts := buildCounts{}
	counts.num[secSignatures] = 1000 // exceeds what the input can cover

	plans := planSections(input, counts, cfg)
	if plans[secSignatures].place != placeRebuild {
		t.Fatalf("signatures should rebuild when input capacity is insufficient, got %v", plans[secSignatures].place)
	}
}

func TestPlanSectionsIndexSectionsAlwaysRebuild(t *testing.T) {
	cfg := defaultBuildConfig()
	input := &header{}
	input.Num[secSignatureIndex] = 100
	input.Max[secSignatureIndex] = 100
	input.IndexSize[secSignatureIndex] = 100

	counts := buildCounts{}
	plans := planSections(input, counts, cfg)
	if plans[secSignatureIndex].place != placeRebuild {
		t.Fatalf("index sections must never inherit, got %v", plans[secSignatureIndex].place)
	}
}

func TestPlanSectionsTransformsInheritsFromInput(t *testing.T) {
	cfg := defaultBuildConfig()
	input := &header{}
	input.Num[secTransforms] = transformCount
	input.Max[secTransforms] = transformCount

	counts := buildCounts{}
	plans := planSections(input, counts, cfg)
	if plans[secTransforms].place != placeInherit {
		t.Fatalf("transforms should inherit when an input exists, got %v", plans[secTransforms].place)
	}
}
