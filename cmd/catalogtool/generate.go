package main

import catalog "github.com/xyzzy/untangle"

// buildGenerator assembles the Generator that drives a build:
// catalog.GenerateLevel over constant zero and the 9 bare input leaves, at
// the requested target size. inputPath is not consulted; catalogued
// members are never used as operand sources, so no candidate larger than
// one node is generated.
func buildGenerator(inputPath string, numNodes int) catalog.Generator {
	return catalog.GenerateLevel(catalog.LeafSources(), numNodes)
}
