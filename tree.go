package catalog

import (
	catalogerrors "github.com/xyzzy/untangle/errors"
)

// NSTART is the id of the first internal (operator) node. Ids below it are
// reserved: 0 is the constant-zero slot, 1..maxSlots are the input leaves.
const NSTART = maxSlots + 1

// maxInternalNodes is the largest number of operator nodes a micro-tree may
// hold.
const maxInternalNodes = 2 * maxSlots

// maxTreeNodes is the total fixed capacity of the node array: the
// constant-zero slot, the leaves, and the internal nodes.
const maxTreeNodes = NSTART + maxInternalNodes

// node is an internal operator node (Q,T,F); T carries the inverter bit in
// its canonical form, never Q or F.
type node struct {
	Q, T, F Ref
}

// Tree is a fixed-capacity normalised Boolean expression tree over the 9
// input variables a..i.
type Tree struct {
	nodes [maxTreeNodes]node
	count uint32 // next free node id; grows from NSTART
	root  Ref
	pure  bool // QnTF-only normalisation mode
}

// NewTree returns an empty tree. When pure is true, every AddNode call
// rewrites a surviving plain QTF form into the QnTF-only form.
func NewTree(pure bool) *Tree {
	return &Tree{count: NSTART, pure: pure}
}

// Root returns the tree's current root reference.
func (t *Tree) Root() Ref { return t.root }

// SetRoot sets the tree's root reference.
func (t *Tree) SetRoot(r Ref) { t.root = r }

// Count returns the current node count (NSTART + number of internal nodes
// appended so far).
func (t *Tree) Count() uint32 { return t.count }

// Size returns the number of internal (operator) nodes, i.e. Count()-NSTART.
func (t *Tree) Size() uint32 { return t.count - NSTART }

// AddNode normalises (Q,T,F) and returns either an existing
// reference (when the triple collapses to a simpler form already present)
// or a freshly appended node, preserving the ordering invariant that every
// operand reference is strictly less than the node's own id.
func (t *Tree) AddNode(q, tt, f Ref) (Ref, error) {
	ibit := false

	// Step 1: inverter push-down.
	if q.Inverted() {
		tt, f = f, tt
		q = q.WithInvert(false)
	}
	if q.Index() == 0 {
		return f, nil
	}
	if f.Inverted() {
		f = f.Inv()
		tt = tt.Inv()
		ibit = !ibit
	}

	// Normalise F==Q (non-inverted) down to F==0: ITE(Q,T,Q) == Q&T.
	if f.Index() == q.Index() {
		f = Ref(0)
	}

	// Step 2: function grouping.
	if collapsed, ok := t.collapse(q, tt, f); ok {
		return applyInvert(collapsed, ibit), nil
	}
	q, tt, f = t.reorder(q, tt, f)

	// Step 3: QnTF-only rewrite of a surviving plain QTF.
	if t.pure && !tt.Inverted() {
		inner, err := t.appendIfAbsent(q, tt.Inv(), f)
		if err != nil {
			return 0, err
		}
		tt = inner.Inv()
	}

	// Step 4: append-if-absent.
	ref, err := t.appendIfAbsent(q, tt, f)
	if err != nil {
		return 0, err
	}
	return applyInvert(ref, ibit), nil
}

// collapse recognises the structural special cases of ITE(Q,T,F) whose
// truth table reduces to SELF or ZERO, returning the resulting reference
// (already final, no further append needed) and true. Every other case,
// including OR, GT, XOR, AND and LT, returns false and is shaped by
// reorder and appended by the caller.
func (t *Tree) collapse(q, tt, f Ref) (Ref, bool) {
	qz, fz := q.Index(), f.Index()
	tz, tInv := tt.Index(), tt.Inverted()

	switch {
	case fz == 0:
		// R = Q & T
		switch {
		case tz == 0:
			if tInv {
				return q, true // SELF: Q&1
			}
			return Ref(0), true // ZERO: Q&0
		case tz == qz:
			if tInv {
				return Ref(0), true // ZERO: Q&~Q
			}
			return q, true // SELF: Q&Q
		}
		// AND or GT: non-collapsing, handled by reorder+append.
		return 0, false

	case tz == fz:
		if !tInv {
			return f, true // SELF: T==F
		}
		return 0, false // XOR: T==~F, non-collapsing (needs reorder)

	case tz == 0:
		if !tInv {
			return 0, false // LT: already canonical (Q,0,F)
		}
		return 0, false // OR: Q|F, non-collapsing (needs reorder)

	case tz == qz:
		if !tInv {
			return 0, false // OR form via T==Q; handled by reorder after rewriting T to const-1.
		}
		return 0, false // T==~Q: collapses to LT form (Q,0,F) after rewrite in reorder.
	}

	return 0, false
}

// reorder completes the non-collapsing structural cases identified by
// collapse: it rewrites T==Q/~Q forms into their canonical (Q,0,F) or
// (Q,const1,F) shape and reorders the symmetric OR/XOR/AND cases by operand
// id so the smaller one leads. GT/LT are asymmetric and are returned
// unchanged.
func (t *Tree) reorder(q, tt, f Ref) (Ref, Ref, Ref) {
	qz, fz := q.Index(), f.Index()
	tz, tInv := tt.Index(), tt.Inverted()

	switch {
	case fz == 0 && tz != 0 && tz != qz:
		// AND (tt plain) or GT (tt inverted).
		if !tInv {
			if tz < qz {
				return tt, q, f // swap so smaller id leads
			}
			return q, tt, f
		}
		return q, tt, f // GT: asymmetric, no reorder

	case tz == fz && tInv:
		// XOR(Q,F): canonical shape keeps T = ~F.
		if fz < qz {
			return Ref(fz), makeRef(qz, true), Ref(qz)
		}
		return q, tt, f

	case tz == 0 && tInv:
		// OR(Q,F) via T==const1.
		if fz < qz {
			return Ref(fz), makeRef(0, true), Ref(qz)
		}
		return q, tt, f

	case tz == qz && !tInv:
		// OR(Q,F) via T==Q: rewrite T to const1 first, then reorder as above.
		if fz < qz {
			return Ref(fz), makeRef(0, true), Ref(qz)
		}
		return q, makeRef(0, true), f

	case tz == qz && tInv:
		// T==~Q collapses to LT form (Q,0,F).
		return q, Ref(0), f
	}

	return q, tt, f
}

// appendIfAbsent performs a linear scan of the existing internal nodes for
// an identical (Q,T,F) triple; if absent it appends a new
// node, enforcing parent-of-child ordering.
func (t *Tree) appendIfAbsent(q, tt, f Ref) (Ref, error) {
	for id := uint32(NSTART); id < t.count; id++ {
		n := t.nodes[id]
		if n.Q == q && n.T == tt && n.F == f {
			return Ref(id), nil
		}
	}
	if t.count >= maxTreeNodes {
		return 0, catalogerrors.ErrTreeOversize
	}
	if q.Index() >= t.count || tt.Index() >= t.count || f.Index() >= t.count {
		panic("catalog: appendIfAbsent: operand references a node not yet created")
	}
	id := t.count
	t.nodes[id] = node{Q: q, T: tt, F: f}
	t.count++
	return Ref(id), nil
}

// Node returns the (Q,T,F) triple stored at id. id must be an internal node
// (id >= NSTART and id < Count()).
func (t *Tree) Node(id uint32) (Ref, Ref, Ref) {
	n := t.nodes[id]
	return n.Q, n.T, n.F
}
