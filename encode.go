package catalog

import (
	catalogerrors "github.com/xyzzy/untangle/errors"
)

// Encode renders t's root as its canonical postfix notation plus the skin
// that recovers the concrete endpoint assignment. A
// single recursive walk assigns placeholders in first-visit order and
// emits opcodes as it unwinds; duplicate subtrees are rendered as a
// back-reference digit 1..9 where the distance allows, otherwise the
// subtree is re-emitted (a tree of at most 2*maxSlots internal nodes keeps
// this rare).
func Encode(t *Tree) (notation, skin string, err error) {
	e := &encoder{
		tree:         t,
		placeholder:  make(map[uint32]byte),
		emitPos:      make(map[uint32]uint32),
		virtualCount: NSTART,
	}
	e.nextPlaceholder = 'a'
	if err := e.walk(t.root); err != nil {
		return "", "", err
	}
	return string(e.buf), e.skinString(), nil
}

type encoder struct {
	tree            *Tree
	buf             []byte
	placeholder     map[uint32]byte // leaf slot id (1..maxSlots) -> assigned letter
	nextPlaceholder byte
	emitPos         map[uint32]uint32 // internal node id -> virtual emission position
	virtualCount    uint32
}

func (e *encoder) walk(r Ref) error {
	idx := r.Index()
	switch {
	case idx == 0:
		e.buf = append(e.buf, '0')
	case idx < NSTART:
		letter, ok := e.placeholder[idx]
		if !ok {
			if e.nextPlaceholder > 'a'+maxSlots-1 {
				return catalogerrors.ErrInvalidPlaceholder
			}
			letter = e.nextPlaceholder
			e.placeholder[idx] = letter
			e.nextPlaceholder++
		}
		e.buf = append(e.buf, letter)
	default:
		if err := e.walkInternal(idx); err != nil {
			return err
		}
	}
	if r.Inverted() {
		e.buf = append(e.buf, '~')
	}
	return nil
}

func (e *encoder) walkInternal(idx uint32) error {
	if pos, ok := e.emitPos[idx]; ok {
		dist := e.virtualCount - pos
		if dist >= 1 && dist <= 9 {
			e.buf = append(e.buf, '0'+byte(dist))
			return nil
		}
		// Out of single-digit back-reference range: re-emit the subtree.
	}

	q, tt, f := e.tree.Node(idx)
	switch {
	case f.Index() == 0:
		if err := e.walk(q); err != nil {
			return err
		}
		if err := e.walk(tt.WithInvert(false)); err != nil {
			return err
		}
		if tt.Inverted() {
			e.buf = append(e.buf, '>')
		} else {
			e.buf = append(e.buf, '&')
		}

	case tt.Index() == 0:
		if err := e.walk(q); err != nil {
			return err
		}
		if err := e.walk(f); err != nil {
			return err
		}
		if tt.Inverted() {
			e.buf = append(e.buf, '+')
		} else {
			e.buf = append(e.buf, '<')
		}

	case tt.Inverted() && tt.Index() == f.Index():
		if err := e.walk(q); err != nil {
			return err
		}
		if err := e.walk(f); err != nil {
			return err
		}
		e.buf = append(e.buf, '^')

	default:
		if err := e.walk(q); err != nil {
			return err
		}
		if err := e.walk(tt.WithInvert(false)); err != nil {
			return err
		}
		if err := e.walk(f); err != nil {
			return err
		}
		if tt.Inverted() {
			e.buf = append(e.buf, '!')
		} else {
			e.buf = append(e.buf, '?')
		}
	}

	e.emitPos[idx] = e.virtualCount
	e.virtualCount++
	return nil
}

func (e *encoder) skinString() string {
	skin := make([]byte, maxSlots)
	used := make([]bool, maxSlots)
	for leafIdx, letter := range e.placeholder {
		placeholder := int(letter - 'a')
		skin[placeholder] = defaultSkin[leafIdx-1]
		used[placeholder] = true
	}
	// Fill unused placeholder slots with the remaining alphabet letters in
	// order; they do not appear in the notation so any completion is valid.
	usedLetters := make([]bool, maxSlots)
	for leafIdx := range e.placeholder {
		usedLetters[leafIdx-1] = true
	}
	li := 0
	for p := 0; p < maxSlots; p++ {
		if used[p] {
			continue
		}
		for li < maxSlots && usedLetters[li] {
			li++
		}
		if li < maxSlots {
			skin[p] = defaultSkin[li]
			usedLetters[li] = true
		}
	}
	return string(skin)
}
