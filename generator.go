package catalog

// OperandSource is a single candidate value usable as an AddNode operand
// during generation. LeafSources is the only constructor: it yields
// constant zero and the bare input leaves.
type OperandSource struct {
	ref  Ref
	name string
}

// LeafSources returns the maxSlots+1 operands every generation round always
// has available regardless of what's already catalogued: constant zero and
// the 9 input leaves.
func LeafSources() []OperandSource {
	srcs := make([]OperandSource, 0, maxSlots+1)
	srcs = append(srcs, OperandSource{ref: Ref(0), name: "0"})
	for k := 1; k <= maxSlots; k++ {
		srcs = append(srcs, OperandSource{ref: Ref(uint32(k)), name: string(defaultSkin[k-1])})
	}
	return srcs
}

// GenerateLevel returns a Generator that builds every (Q,T,F) combination
// of the given operand sources whose normalised tree has exactly
// targetSize internal nodes, offering each to whatever Collector consumes
// it. Each candidate is a single AddNode over three sources, so over
// LeafSources no tree larger than one node is produced.
func GenerateLevel(sources []OperandSource, targetSize int) Generator {
	return func(offer func(tree *Tree, name string, numPlaceholder, numEndpoint, numBackRef uint8) error) error {
		for qi := range sources {
			for ti := range sources {
				for fi := range sources {
					for _, qInv := range [2]bool{false, true} {
						for _, tInv := range [2]bool{false, true} {
							q := applyInvert(sources[qi].ref, qInv)
							t := applyInvert(sources[ti].ref, tInv)
							f := sources[fi].ref

							tree := NewTree(false)
							root, err := tree.AddNode(q, t, f)
							if err != nil {
								continue // oversize or otherwise unrepresentable, skip
							}
							tree.SetRoot(root)
							if int(tree.Size()) != targetSize {
								continue
							}

							notation, skin, err := Encode(tree)
							if err != nil {
								continue
							}
							placeholders, endpoints, backrefs := countShape(notation)
							if err := offer(tree, notation, placeholders, endpoints, backrefs); err != nil {
								return err
							}
							_ = skin
						}
					}
				}
			}
		}
		return nil
	}
}

// countShape scans a notation string for its NumPlaceholder (distinct
// a-i letters used), NumEndpoint (total leaf occurrences including
// repeats) and NumBackRef (digit back-references) counts.
func countShape(notation string) (numPlaceholder, numEndpoint, numBackRef uint8) {
	var seen [maxSlots]bool
	for _, c := range notation {
		switch {
		case c >= 'a' && c < 'a'+rune(maxSlots):
			if !seen[c-'a'] {
				seen[c-'a'] = true
				numPlaceholder++
			}
			numEndpoint++
		case c >= '1' && c <= '9':
			numBackRef++
		}
	}
	return
}
