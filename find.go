package rsd

// root returns the topmost ancestor of v, i.e. the document root.
func (v *Value) root() *Value {
	cur := v

	for cur.parent != nil {
		cur = cur.parent
	}

	return cur
}

// Find walks ref starting at v, descending into block members (by name,
// falling back to an inherited block only once every local name has been
// exhausted) and array elements (by subscript). It does not resolve
// references or macros along the way; call Resolve on the result for that.
func (v *Value) Find(ref Reference) (*Value, error) {
	cur := v

	for _, part := range ref.Parts {
		if part.Name != "" {
			if cur.kind != BlockKind {
				return nil, newValueError(cur.pos, "cannot look up %q: %s is not a block", part.Name, cur.Path())
			}

			next, ok, err := lookupInBlock(cur, part.Name, make(map[*Value]bool))
			if err != nil {
				return nil, err
			}

			if !ok {
				return nil, newValueError(cur.pos, "no member named %q in block %s", part.Name, cur.Path())
			}

			cur = next
		}

		if part.Subscript == nil {
			continue
		}

		switch part.Subscript.Kind {
		case IndexSubscript:
			next, err := indexInto(cur, part.Subscript.Index)
			if err != nil {
				return nil, err
			}

			cur = next
		case KeySubscript:
			next, err := keyInto(cur, part.Subscript.Key)
			if err != nil {
				return nil, err
			}

			cur = next
		case ExprSubscript:
			return nil, newValueError(cur.pos, "subscript on %s is an unresolved macro/reference expression; call Resolve instead of Find", cur.Path())
		}
	}

	return cur, nil
}

// indexInto looks up an integer subscript on an Array value, or on a Block
// value by position in its member insertion order.
func indexInto(cur *Value, idx int64) (*Value, error) {
	if cur.kind == BlockKind {
		if idx >= 0 && idx < int64(cur.blkVal.Len()) {
			m, _ := cur.blkVal.ValueAt(int(idx))
			return m, nil
		}

		return nil, newValueError(cur.pos, "index %d out of range for block %s (len %d)", idx, cur.Path(), cur.blkVal.Len())
	}

	if cur.kind != Array {
		return nil, newValueError(cur.pos, "cannot index non-container value %s with [%d]", cur.Path(), idx)
	}

	if idx < 0 || idx >= int64(len(cur.arrVal)) {
		return nil, newValueError(cur.pos, "index %d out of range for array %s (len %d)", idx, cur.Path(), len(cur.arrVal))
	}

	return cur.arrVal[idx], nil
}

// keyInto looks up a string-key subscript on a Block value.
func keyInto(cur *Value, key string) (*Value, error) {
	if cur.kind != BlockKind {
		return nil, newValueError(cur.pos, "cannot key-index non-block value %s", cur.Path())
	}

	next, ok, err := lookupInBlock(cur, key, make(map[*Value]bool))
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, newValueError(cur.pos, "no member named %q in block %s", key, cur.Path())
	}

	return next, nil
}

// FindString parses s as a reference and calls Find with it.
func (v *Value) FindString(s string) (*Value, error) {
	ref, err := ParseReference(s)
	if err != nil {
		return nil, err
	}

	return v.Find(ref)
}

// lookupInBlock looks for name among b's local members first; only once
// every local name has been exhausted does it fall back to the block b
// inherits from, if any. This is the corrected lookup order: the reference
// implementation's equivalent check sits inside the per-member loop, which
// can short-circuit to the inherited block before every local name has
// been considered.
func lookupInBlock(b *Value, name string, visited map[*Value]bool) (*Value, bool, error) {
	if visited[b] {
		return nil, false, newValueError(b.pos, "inheritance cycle detected at block %s", b.Path())
	}

	visited[b] = true

	if m, ok := b.blkVal.Get(name); ok {
		return m, true, nil
	}

	if b.inherits == nil {
		return nil, false, nil
	}

	parent, err := b.resolveInheritedBlock()
	if err != nil {
		return nil, false, err
	}

	return lookupInBlock(parent, name, visited)
}

// resolveInheritedBlock resolves v's inherits reference (relative to the
// document root) and checks that it names a Block.
func (v *Value) resolveInheritedBlock() (*Value, error) {
	target, err := v.root().Find(*v.inherits)
	if err != nil {
		return nil, err
	}

	if target.kind != BlockKind {
		return nil, newValueError(v.pos, "%s inherits from %s, which is not a block", v.Path(), v.inherits.String())
	}

	return target, nil
}

// inheritanceChain returns v followed by each block it transitively
// inherits from, closest first. An inheritance cycle is reported as a
// ValueError rather than recursed into indefinitely.
func (v *Value) inheritanceChain() ([]*Value, error) {
	var chain []*Value

	visited := make(map[*Value]bool)
	cur := v

	for {
		if visited[cur] {
			return nil, newValueError(cur.pos, "inheritance cycle detected at block %s", cur.Path())
		}

		visited[cur] = true
		chain = append(chain, cur)

		if cur.inherits == nil {
			return chain, nil
		}

		parent, err := cur.resolveInheritedBlock()
		if err != nil {
			return nil, err
		}

		cur = parent
	}
}

// AsInlinedBlock returns a new Block value with every member this block
// would see through inheritance spliced in directly: ancestors are applied
// first, in order from farthest to nearest, so nearer blocks' members (and
// this block's own) take precedence over same-named ancestor members.
func (v *Value) AsInlinedBlock() (*Value, error) {
	if v.kind != BlockKind {
		return nil, newConversionError(v.pos, "cannot inline non-block value %s", v.Path())
	}

	chain, err := v.inheritanceChain()
	if err != nil {
		return nil, err
	}

	out := NewBlock()

	for i := len(chain) - 1; i >= 0; i-- {
		b := chain[i]

		for _, name := range b.blkVal.Names() {
			m, _ := b.blkVal.Get(name)
			out.SetMember(name, m.Clone())
		}
	}

	return out, nil
}

// FindByTypeName recursively searches v (through array elements, block
// members and inherited block members) for every value annotated with tn.
func (v *Value) FindByTypeName(tn TypeName) ([]*Value, error) {
	var results []*Value

	if err := v.walkByTypeName(tn, &results); err != nil {
		return nil, err
	}

	return results, nil
}

func (v *Value) walkByTypeName(tn TypeName, out *[]*Value) error {
	if v.typ.Equal(tn) {
		*out = append(*out, v)
	}

	switch v.kind {
	case Array:
		for _, e := range v.arrVal {
			if err := e.walkByTypeName(tn, out); err != nil {
				return err
			}
		}
	case BlockKind:
		inlined, err := v.AsInlinedBlock()
		if err != nil {
			return err
		}

		for _, name := range inlined.blkVal.Names() {
			m, _ := inlined.blkVal.Get(name)
			if err := m.walkByTypeName(tn, out); err != nil {
				return err
			}
		}
	}

	return nil
}
