// Package rsd implements the RSD scene-description configuration language:
// its data model (Value, Reference, MacroInvocation), a hand-written
// recursive-descent parser, and a resolver that follows references, expands
// "${...}" string interpolation, executes macros and walks block
// inheritance.
package rsd

import (
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/renderspud/rsd/token"
)

// Kind identifies which of RSD's value variants a Value holds.
type Kind int

const (
	Invalid Kind = iota
	Boolean
	Integer
	Float
	String
	ReferenceKind
	MacroKind
	Array
	BlockKind
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case ReferenceKind:
		return "reference"
	case MacroKind:
		return "macro"
	case Array:
		return "array"
	case BlockKind:
		return "block"
	default:
		return "invalid"
	}
}

// Block is the ordered, named member container backing a Value of Kind
// BlockKind. Member order is insertion order, preserved by the underlying
// linked hash map.
type Block struct {
	members *linkedhashmap.Map // string -> *Value
}

func newBlockStorage() *Block {
	return &Block{members: linkedhashmap.New()}
}

// Len returns the number of named members.
func (b *Block) Len() int {
	return b.members.Size()
}

// Get returns the member named name, if present.
func (b *Block) Get(name string) (*Value, bool) {
	v, ok := b.members.Get(name)
	if !ok {
		return nil, false
	}

	return v.(*Value), true
}

// Names returns the member names in insertion order.
func (b *Block) Names() []string {
	keys := b.members.Keys()
	names := make([]string, len(keys))

	for i, k := range keys {
		names[i] = k.(string)
	}

	return names
}

// ValueAt returns the i-th member's value, in insertion order.
func (b *Block) ValueAt(i int) (*Value, bool) {
	values := b.members.Values()
	if i < 0 || i >= len(values) {
		return nil, false
	}

	return values[i].(*Value), true
}

// NameAt returns the i-th member's name, in insertion order.
func (b *Block) NameAt(i int) (string, bool) {
	keys := b.members.Keys()
	if i < 0 || i >= len(keys) {
		return "", false
	}

	return keys[i].(string), true
}

// Set adds or replaces the member named name. If name is new, it is
// appended at the end of the insertion order.
func (b *Block) Set(name string, v *Value) {
	b.members.Put(name, v)
}

// Remove deletes the member named name, if present.
func (b *Block) Remove(name string) {
	b.members.Remove(name)
}

// InsertBefore inserts v under name immediately before position i, shifting
// members at i and after it back by one. Valid range is 0 <= i <= Len(); i
// == Len() appends. This implements the corrected "insert before i"
// semantics rather than the ambiguous "i-1" indexing of the reference
// implementation.
func (b *Block) InsertBefore(i int, name string, v *Value) {
	names := b.Names()
	values := make([]*Value, len(names))

	for idx, n := range names {
		val, _ := b.Get(n)
		values[idx] = val
	}

	if i < 0 {
		i = 0
	}

	if i > len(names) {
		i = len(names)
	}

	newNames := make([]string, 0, len(names)+1)
	newValues := make([]*Value, 0, len(values)+1)

	newNames = append(newNames, names[:i]...)
	newValues = append(newValues, values[:i]...)
	newNames = append(newNames, name)
	newValues = append(newValues, v)
	newNames = append(newNames, names[i:]...)
	newValues = append(newValues, values[i:]...)

	b.members.Clear()

	for idx, n := range newNames {
		b.members.Put(n, newValues[idx])
	}
}

// RemoveAt removes the member at position i, in insertion order.
func (b *Block) RemoveAt(i int) {
	name, ok := b.NameAt(i)
	if !ok {
		return
	}

	b.Remove(name)
}

func (b *Block) clone() *Block {
	cp := newBlockStorage()

	for _, name := range b.Names() {
		v, _ := b.Get(name)
		cp.Set(name, v.Clone())
	}

	return cp
}

// Value is a single node of the lazily-evaluated RSD expression graph. It is
// a tagged union over nine kinds: Invalid, Boolean, Integer, Float, String,
// a Reference to another value, a MacroInvocation, an Array of Values, or a
// Block of named Values.
type Value struct {
	kind Kind
	typ  TypeName
	pos  token.Pos

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string // for String: the raw text, possibly containing ${...}
	refVal   Reference
	macroVal *MacroInvocation
	arrVal   []*Value
	blkVal   *Block

	// inherits names a block whose members are visible as a fallback when
	// a name is not found locally in this Block. Only meaningful when
	// kind == BlockKind.
	inherits *Reference

	parent         *Value
	parentName     string
	parentIndex    int
	hasParentName  bool
	hasParentIndex bool

	// pendingIncludes holds include directives parsed inside this block
	// that the loader has not yet spliced in. Only meaningful when kind
	// == BlockKind.
	pendingIncludes []IncludeDirective
}

// IncludeDirective is an `include "path";` statement found while parsing a
// block, recording where among the block's members it appeared so the
// loader can splice the included file's members in at the same position.
type IncludeDirective struct {
	Path string
	Pos  token.Pos
	At   int
}

// PendingIncludes returns the include directives parsed inside this block
// that have not yet been spliced in by a loader. Only meaningful for Block
// values.
func (v *Value) PendingIncludes() []IncludeDirective {
	return v.pendingIncludes
}

// ClearPendingIncludes discards this block's pending include directives,
// e.g. once a loader has processed them.
func (v *Value) ClearPendingIncludes() {
	v.pendingIncludes = nil
}

func (v *Value) addPendingInclude(path string, pos token.Pos) {
	v.pendingIncludes = append(v.pendingIncludes, IncludeDirective{
		Path: path,
		Pos:  pos,
		At:   v.blkVal.Len(),
	})
}

func newValue(kind Kind) *Value {
	return &Value{kind: kind, parentIndex: -1}
}

// NewBoolean returns a new Boolean Value.
func NewBoolean(b bool) *Value {
	v := newValue(Boolean)
	v.boolVal = b

	return v
}

// NewInteger returns a new Integer Value.
func NewInteger(i int64) *Value {
	v := newValue(Integer)
	v.intVal = i

	return v
}

// NewFloat returns a new Float Value.
func NewFloat(f float64) *Value {
	v := newValue(Float)
	v.floatVal = f

	return v
}

// NewString returns a new String Value. s may contain "${ref}" markers,
// which Resolve expands.
func NewString(s string) *Value {
	v := newValue(String)
	v.strVal = s

	return v
}

// NewReferenceValue returns a new Value holding a Reference.
func NewReferenceValue(ref Reference) *Value {
	v := newValue(ReferenceKind)
	v.refVal = ref

	return v
}

// NewMacroValue returns a new Value holding a MacroInvocation.
func NewMacroValue(m *MacroInvocation) *Value {
	v := newValue(MacroKind)
	v.macroVal = m

	return v
}

// NewArray returns a new, empty Array Value.
func NewArray() *Value {
	v := newValue(Array)
	v.arrVal = nil

	return v
}

// NewBlock returns a new, empty Block Value.
func NewBlock() *Value {
	v := newValue(BlockKind)
	v.blkVal = newBlockStorage()

	return v
}

// Kind returns which variant this Value holds.
func (v *Value) Kind() Kind { return v.kind }

// TypeName returns the value's type annotation. A Value with no explicit
// "@Type" annotation has an empty TypeName (TypeName.IsEmpty() is true).
func (v *Value) TypeName() TypeName { return v.typ }

// SetTypeName sets the value's type annotation.
func (v *Value) SetTypeName(t TypeName) { v.typ = t }

// Pos returns the source position this value was parsed from.
func (v *Value) Pos() token.Pos { return v.pos }

// SetPos sets the source position of this value.
func (v *Value) SetPos(p token.Pos) { v.pos = p }

// Bool returns the raw boolean payload. Only meaningful if Kind() ==
// Boolean; use AsBool for a coercing accessor.
func (v *Value) Bool() bool { return v.boolVal }

// Int returns the raw integer payload. Only meaningful if Kind() ==
// Integer; use AsInt for a coercing accessor.
func (v *Value) Int() int64 { return v.intVal }

// FloatVal returns the raw float payload. Only meaningful if Kind() ==
// Float; use AsFloat for a coercing accessor.
func (v *Value) FloatVal() float64 { return v.floatVal }

// RawString returns the raw string payload, including any unexpanded
// "${...}" markers. Only meaningful if Kind() == String.
func (v *Value) RawString() string { return v.strVal }

// ReferenceVal returns the raw Reference payload. Only meaningful if
// Kind() == ReferenceKind.
func (v *Value) ReferenceVal() Reference { return v.refVal }

// MacroVal returns the raw MacroInvocation payload. Only meaningful if
// Kind() == MacroKind.
func (v *Value) MacroVal() *MacroInvocation { return v.macroVal }

// Elements returns the array's elements, in order. Only meaningful if
// Kind() == Array.
func (v *Value) Elements() []*Value { return v.arrVal }

// BlockData returns the block storage backing this value. Only meaningful if
// Kind() == BlockKind.
func (v *Value) BlockData() *Block { return v.blkVal }

// Inherits returns the block this value inherits members from, if any.
func (v *Value) Inherits() (Reference, bool) {
	if v.inherits == nil {
		return Reference{}, false
	}

	return *v.inherits, true
}

// SetInherits sets the block this value inherits members from.
func (v *Value) SetInherits(ref Reference) {
	r := ref
	v.inherits = &r
}

// Append adds v2 to the end of an Array value, recording v2's parent/index
// context. Panics if v is not an Array; callers should check Kind() first,
// exactly as the reference implementation assumes a well-typed call site.
func (v *Value) Append(v2 *Value) {
	if v.kind != Array {
		panic("rsd: Append called on non-array Value")
	}

	v2.parent = v
	v2.hasParentIndex = true
	v2.parentIndex = len(v.arrVal)
	v2.hasParentName = false
	v.arrVal = append(v.arrVal, v2)
}

// SetMember adds or replaces a named member of a Block value, recording
// v2's parent/name context. Panics if v is not a Block.
func (v *Value) SetMember(name string, v2 *Value) {
	if v.kind != BlockKind {
		panic("rsd: SetMember called on non-block Value")
	}

	v2.parent = v
	v2.hasParentName = true
	v2.parentName = name
	v2.hasParentIndex = false
	v.blkVal.Set(name, v2)
}

// Parent returns the Value this value is nested in, or nil at the document
// root.
func (v *Value) Parent() *Value { return v.parent }

// Path renders the fully-qualified dotted/subscripted path from the
// document root down to this value, e.g. "scene.cameras[0].fov". It falls
// directly out of the context back-pointer and is used in diagnostic
// messages.
func (v *Value) Path() string {
	if v.parent == nil {
		return ""
	}

	parentPath := v.parent.Path()

	var seg string

	if v.hasParentName {
		seg = v.parentName
	} else if v.hasParentIndex {
		seg = "[" + strconv.Itoa(v.parentIndex) + "]"
	} else {
		return parentPath
	}

	if parentPath == "" {
		return seg
	}

	if v.hasParentIndex {
		return parentPath + seg
	}

	return parentPath + "." + seg
}

// Clone returns a deep copy of v. The clone has no parent; attach it to a
// Block or Array to give it one.
func (v *Value) Clone() *Value {
	cp := &Value{
		kind:        v.kind,
		typ:         v.typ,
		pos:         v.pos,
		boolVal:     v.boolVal,
		intVal:      v.intVal,
		floatVal:    v.floatVal,
		strVal:      v.strVal,
		parentIndex: -1,
	}

	if v.inherits != nil {
		r := *v.inherits
		cp.inherits = &r
	}

	switch v.kind {
	case ReferenceKind:
		cp.refVal = v.refVal.Clone()
	case MacroKind:
		cp.macroVal = v.macroVal.Clone()
	case Array:
		cp.arrVal = make([]*Value, len(v.arrVal))
		for i, e := range v.arrVal {
			ce := e.Clone()
			ce.parent = cp
			ce.hasParentIndex = true
			ce.parentIndex = i
			cp.arrVal[i] = ce
		}
	case BlockKind:
		cp.blkVal = newBlockStorage()

		for _, name := range v.blkVal.Names() {
			m, _ := v.blkVal.Get(name)
			cm := m.Clone()
			cm.parent = cp
			cm.hasParentName = true
			cm.parentName = name
			cp.blkVal.Set(name, cm)
		}
	}

	return cp
}

// AsBool coerces v to a bool. Only Boolean values convert.
func (v *Value) AsBool() (bool, error) {
	if v.kind != Boolean {
		return false, newConversionError(v.pos, "cannot convert %s to boolean", v.kind)
	}

	return v.boolVal, nil
}

// AsInt coerces v to an int64. Only Integer values convert; unlike AsFloat,
// this does not widen a Float, even one holding an exact integral value
// (matching the reference implementation's Value::asInteger, which rejects
// every non-Integer kind regardless of value).
func (v *Value) AsInt() (int64, error) {
	if v.kind != Integer {
		return 0, newConversionError(v.pos, "cannot convert %s to integer", v.kind)
	}

	return v.intVal, nil
}

// AsFloat coerces v to a float64. Integer and Float values both convert.
func (v *Value) AsFloat() (float64, error) {
	switch v.kind {
	case Float:
		return v.floatVal, nil
	case Integer:
		return float64(v.intVal), nil
	default:
		return 0, newConversionError(v.pos, "cannot convert %s to float", v.kind)
	}
}

// AsString coerces v to a string. Only String values convert; it does not
// stringify other kinds (use Serialize for that).
func (v *Value) AsString() (string, error) {
	if v.kind != String {
		return "", newConversionError(v.pos, "cannot convert %s to string", v.kind)
	}

	return v.strVal, nil
}
