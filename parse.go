package catalog

import (
	catalogerrors "github.com/xyzzy/untangle/errors"
)

// defaultSkin is the identity skin: placeholder j maps to endpoint j.
const defaultSkin = "abcdefghi"

// maxParseStack bounds the operand stack; a well-formed postfix string over
// a tree of at most maxInternalNodes operators never needs more.
const maxParseStack = maxInternalNodes + maxSlots + 1

type parseStack struct {
	data [maxParseStack]Ref
	n    int
}

func (s *parseStack) push(r Ref) error {
	if s.n >= len(s.data) {
		return catalogerrors.ErrStackOverflow
	}
	s.data[s.n] = r
	s.n++
	return nil
}

func (s *parseStack) pop() (Ref, error) {
	if s.n == 0 {
		return 0, catalogerrors.ErrStackUnderflow
	}
	s.n--
	return s.data[s.n], nil
}

// ParseSafe parses a postfix notation string under the given skin, applying
// full normalisation via AddNode. Use this whenever the
// input may not already be in canonical form.
func ParseSafe(notation, skin string, pure bool) (*Tree, error) {
	t := NewTree(pure)
	root, err := parsePostfix(t, notation, skin, t.AddNode)
	if err != nil {
		return nil, err
	}
	t.SetRoot(root)
	return t, nil
}

// ParseFast parses a postfix notation string assuming it is already
// canonical: nodes are appended literally, without re-running
// normalisation. Use only on strings produced by Encode (or otherwise known
// canonical).
func ParseFast(notation, skin string, pure bool) (*Tree, error) {
	t := NewTree(pure)
	root, err := parsePostfix(t, notation, skin, t.appendRaw)
	if err != nil {
		return nil, err
	}
	t.SetRoot(root)
	return t, nil
}

type nodeMaker func(q, t, f Ref) (Ref, error)

func parsePostfix(t *Tree, notation, skin string, make_ nodeMaker) (Ref, error) {
	if skin == "" {
		skin = defaultSkin
	}
	if len(skin) != maxSlots {
		return 0, catalogerrors.ErrInvalidPlaceholder
	}

	var st parseStack
	for i := 0; i < len(notation); i++ {
		c := notation[i]
		switch {
		case c == '0':
			if err := st.push(Ref(0)); err != nil {
				return 0, err
			}

		case c >= 'a' && c <= 'a'+maxSlots-1:
			placeholder := int(c - 'a')
			endpoint := skin[placeholder]
			slot := -1
			for k := 0; k < maxSlots; k++ {
				if defaultSkin[k] == endpoint {
					slot = k
					break
				}
			}
			if slot < 0 {
				return 0, catalogerrors.ErrInvalidPlaceholder
			}
			if err := st.push(Ref(uint32(1 + slot))); err != nil {
				return 0, err
			}

		case c >= '1' && c <= '9':
			dist := uint32(c - '0')
			if dist > t.count-NSTART {
				return 0, catalogerrors.ErrInvalidPlaceholder
			}
			if err := st.push(Ref(t.count - dist)); err != nil {
				return 0, err
			}

		case c == '~':
			x, err := st.pop()
			if err != nil {
				return 0, err
			}
			if err := st.push(x.Inv()); err != nil {
				return 0, err
			}

		case c == '&':
			t1, t2, err := popTwo(&st)
			if err != nil {
				return 0, err
			}
			if err := applyMake(&st, make_, t1, t2, Ref(0)); err != nil {
				return 0, err
			}

		case c == '|' || c == '+':
			t1, t2, err := popTwo(&st)
			if err != nil {
				return 0, err
			}
			if err := applyMake(&st, make_, t1, makeRef(0, true), t2); err != nil {
				return 0, err
			}

		case c == '^':
			t1, t2, err := popTwo(&st)
			if err != nil {
				return 0, err
			}
			if err := applyMake(&st, make_, t1, t2.Inv(), t2); err != nil {
				return 0, err
			}

		case c == '>':
			t1, t2, err := popTwo(&st)
			if err != nil {
				return 0, err
			}
			if err := applyMake(&st, make_, t1, t2.Inv(), Ref(0)); err != nil {
				return 0, err
			}

		case c == '<':
			t1, t2, err := popTwo(&st)
			if err != nil {
				return 0, err
			}
			if err := applyMake(&st, make_, t1, Ref(0), t2); err != nil {
				return 0, err
			}

		case c == '?':
			q, tt, f, err := popThree(&st)
			if err != nil {
				return 0, err
			}
			if err := applyMake(&st, make_, q, tt, f); err != nil {
				return 0, err
			}

		case c == '!':
			q, tt, f, err := popThree(&st)
			if err != nil {
				return 0, err
			}
			if err := applyMake(&st, make_, q, tt.Inv(), f); err != nil {
				return 0, err
			}

		default:
			return 0, catalogerrors.ErrSyntax
		}
	}

	root, err := st.pop()
	if err != nil {
		return 0, err
	}
	if st.n != 0 {
		return 0, catalogerrors.ErrSyntax
	}
	return root, nil
}

func popTwo(st *parseStack) (Ref, Ref, error) {
	t2, err := st.pop()
	if err != nil {
		return 0, 0, err
	}
	t1, err := st.pop()
	if err != nil {
		return 0, 0, err
	}
	return t1, t2, nil
}

func popThree(st *parseStack) (Ref, Ref, Ref, error) {
	f, err := st.pop()
	if err != nil {
		return 0, 0, 0, err
	}
	tt, err := st.pop()
	if err != nil {
		return 0, 0, 0, err
	}
	q, err := st.pop()
	if err != nil {
		return 0, 0, 0, err
	}
	return q, tt, f, nil
}

func applyMake(st *parseStack, make_ nodeMaker, q, tt, f Ref) error {
	r, err := make_(q, tt, f)
	if err != nil {
		return err
	}
	return st.push(r)
}

// appendRaw appends a node without normalisation, used by ParseFast which
// trusts the input is already canonical.
func (t *Tree) appendRaw(q, tt, f Ref) (Ref, error) {
	if t.count >= maxTreeNodes {
		return 0, catalogerrors.ErrTreeOversize
	}
	id := t.count
	t.nodes[id] = node{Q: q, T: tt, F: f}
	t.count++
	return Ref(id), nil
}
