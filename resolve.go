package rsd

import (
	"strconv"
	"strings"
)

// Resolve evaluates v against reg and returns the fully-evaluated Value,
// whether it could be fully evaluated, and an error.
//
// The three-way result distinguishes two very different situations the
// reference implementation conflated under a single caught exception: if v
// (or something v depends on) names a macro that was never registered,
// Resolve returns a non-nil error — this is a programmer/document mistake
// that should stop the caller. But if a registered macro's own Invoke call
// itself returns an error, that failure is swallowed: Resolve returns the
// original, unresolved Value and resolved=false, with a nil error, exactly
// as spec requires. Resolution is never cached: calling Resolve twice walks
// the graph twice.
func Resolve(v *Value, reg *Registry) (*Value, bool, error) {
	return resolveWithVisited(v, reg, make(map[*Value]bool))
}

// AllValuesResolvable reports whether every reference, macro invocation and
// string interpolation reachable from v can be fully evaluated against reg.
// It surfaces only hard errors (e.g. an unregistered macro); a macro that
// merely fails to produce a value yields false, not an error.
func AllValuesResolvable(v *Value, reg *Registry) (bool, error) {
	_, resolved, err := Resolve(v, reg)
	if err != nil {
		return false, err
	}

	return resolved, nil
}

func resolveWithVisited(v *Value, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	switch v.kind {
	case Boolean, Integer, Float:
		return v, true, nil
	case String:
		return resolveString(v, reg, visiting)
	case ReferenceKind:
		return resolveReference(v, reg, visiting)
	case MacroKind:
		return resolveMacro(v, reg, visiting)
	case Array:
		return resolveArray(v, reg, visiting)
	case BlockKind:
		return resolveBlock(v, reg, visiting)
	default:
		return nil, false, newValueError(v.pos, "cannot resolve an invalid value")
	}
}

func resolveReference(v *Value, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	if visiting[v] {
		return nil, false, newValueError(v.pos, "reference cycle detected at %s", v.Path())
	}

	visiting[v] = true
	defer delete(visiting, v)

	target, found, err := resolveRef(v, v.refVal, reg, visiting)
	if err != nil {
		return nil, false, err
	}

	if !found {
		return v, false, nil
	}

	return resolveWithVisited(target, reg, visiting)
}

// resolveRef finds the value named by ref starting at v's evaluation
// context (the nearest enclosing Block), walking outward through each
// enclosing Block on a miss of ref's first segment, all the way out to the
// document root. This mirrors the original implementation's context
// delegation chain (m_pContext->resolve) and is what lets a block reference
// a sibling member, e.g. a "camera" block referencing its containing
// "scene" block's "position" member without spelling out the whole path.
//
// Once the first segment is found, any "[...]" subscript that is itself a
// macro or reference expression is resolved against reg as the remainder of
// ref is walked; such a subscript that merely hasn't resolved yet (e.g. its
// registered macro's Invoke returned an error) yields found=false rather
// than an error, matching the rest of the resolver's convention.
func resolveRef(v *Value, ref Reference, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	if len(ref.Parts) == 0 {
		return v, true, nil
	}

	first := ref.Parts[0]

	if first.Name != "" {
		for ctx := v.parent; ctx != nil; ctx = ctx.parent {
			if ctx.kind != BlockKind {
				continue
			}

			m, ok, err := lookupInBlock(ctx, first.Name, make(map[*Value]bool))
			if err != nil {
				return nil, false, err
			}

			if !ok {
				continue
			}

			return walkRefParts(v, m, first, ref.Parts[1:], reg, visiting)
		}
	}

	return nil, false, newValueError(v.pos, "no member named %q visible from %s", first.Name, v.Path())
}

// walkRefParts applies first's own subscript (if any) to base, then
// resolves the remaining path segments the same way Value.Find does,
// except that an ExprSubscript is evaluated against reg instead of
// rejected.
func walkRefParts(ctxHost *Value, base *Value, first ReferencePart, rest []ReferencePart, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	cur, resolved, err := resolveSubscript(ctxHost, base, first.Subscript, reg, visiting)
	if err != nil || !resolved {
		return cur, resolved, err
	}

	for _, part := range rest {
		if part.Name != "" {
			if cur.kind != BlockKind {
				return nil, false, newValueError(cur.pos, "cannot look up %q: %s is not a block", part.Name, cur.Path())
			}

			next, ok, err := lookupInBlock(cur, part.Name, make(map[*Value]bool))
			if err != nil {
				return nil, false, err
			}

			if !ok {
				return nil, false, newValueError(cur.pos, "no member named %q in block %s", part.Name, cur.Path())
			}

			cur = next
		}

		cur, resolved, err = resolveSubscript(ctxHost, cur, part.Subscript, reg, visiting)
		if err != nil || !resolved {
			return cur, resolved, err
		}
	}

	return cur, true, nil
}

// resolveSubscript applies a single subscript to cur. A literal integer or
// string subscript always resolves immediately; an ExprSubscript resolves
// its macro/reference expression first, then dispatches on the kind of
// Value that expression produced.
func resolveSubscript(ctxHost *Value, cur *Value, sub *Subscript, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	if sub == nil {
		return cur, true, nil
	}

	switch sub.Kind {
	case IndexSubscript:
		next, err := indexInto(cur, sub.Index)
		return next, err == nil, err
	case KeySubscript:
		next, err := keyInto(cur, sub.Key)
		return next, err == nil, err
	case ExprSubscript:
		rv, resolved, err := resolveSubscriptExpr(ctxHost, sub.Expr, reg, visiting)
		if err != nil {
			return nil, false, err
		}

		if !resolved {
			return cur, false, nil
		}

		switch rv.kind {
		case Integer:
			next, err := indexInto(cur, rv.intVal)
			return next, err == nil, err
		case String:
			next, err := keyInto(cur, rv.strVal)
			return next, err == nil, err
		default:
			return nil, false, newValueError(cur.pos, "subscript expression on %s must resolve to an integer or string, got %s", cur.Path(), rv.kind)
		}
	default:
		return cur, true, nil
	}
}

// resolveSubscriptExpr evaluates the expression inside an ExprSubscript. A
// macro invocation is self-contained and resolves like any other macro. A
// reference, though, was parsed inline inside "[...]" and so was never
// attached to the value tree (it has no Parent to walk outward from) — it
// resolves against ctxHost's evaluation context instead, ctxHost being the
// Reference value the subscript itself belongs to.
func resolveSubscriptExpr(ctxHost *Value, expr *Value, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	if expr.kind != ReferenceKind {
		return resolveWithVisited(expr, reg, visiting)
	}

	if visiting[expr] {
		return nil, false, newValueError(expr.pos, "reference cycle detected in subscript at %s", expr.Path())
	}

	visiting[expr] = true
	defer delete(visiting, expr)

	target, found, err := resolveRef(ctxHost, expr.refVal, reg, visiting)
	if err != nil {
		return nil, false, err
	}

	if !found {
		return expr, false, nil
	}

	return resolveWithVisited(target, reg, visiting)
}

func resolveMacro(v *Value, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	m := v.macroVal

	macro, ok := reg.Lookup(m.MacroName)
	if !ok {
		return nil, false, newValueError(v.pos, "macro %q is not registered", m.MacroName)
	}

	args := make(map[string]*Value, len(m.Args))

	for name, arg := range m.Args {
		rv, resolved, err := resolveWithVisited(arg, reg, visiting)
		if err != nil {
			return nil, false, err
		}

		if !resolved {
			// An argument isn't ready yet; the invocation as a whole can't
			// run, but that isn't an error either.
			return v, false, nil
		}

		args[name] = rv
	}

	result, err := macro.Invoke(args)
	if err != nil {
		// The macro ran but failed on its own terms: swallow, per spec,
		// rather than propagate.
		return v, false, nil
	}

	return resolveWithVisited(result, reg, visiting)
}

func resolveArray(v *Value, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	out := NewArray()
	allResolved := true

	for _, e := range v.arrVal {
		re, resolved, err := resolveWithVisited(e, reg, visiting)
		if err != nil {
			return nil, false, err
		}

		if !resolved {
			allResolved = false
		}

		out.Append(re)
	}

	return out, allResolved, nil
}

func resolveBlock(v *Value, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	out := NewBlock()
	if v.inherits != nil {
		out.SetInherits(*v.inherits)
	}

	allResolved := true

	for _, name := range v.blkVal.Names() {
		m, _ := v.blkVal.Get(name)

		rm, resolved, err := resolveWithVisited(m, reg, visiting)
		if err != nil {
			return nil, false, err
		}

		if !resolved {
			allResolved = false
		}

		out.SetMember(name, rm)
	}

	return out, allResolved, nil
}

// resolveString expands every "${reference}" marker in v's raw text. A
// reference that cannot be found or whose resolved value is itself a
// composite (Array or Block, which have no scalar textual form) is a hard
// error; a reference to an unresolved macro leaves the whole string
// unresolved.
func resolveString(v *Value, reg *Registry, visiting map[*Value]bool) (*Value, bool, error) {
	raw := v.strVal

	if !strings.Contains(raw, "${") {
		return v, true, nil
	}

	var sb strings.Builder

	i := 0
	allResolved := true

	for i < len(raw) {
		start := strings.Index(raw[i:], "${")
		if start < 0 {
			sb.WriteString(raw[i:])
			break
		}

		start += i
		sb.WriteString(raw[i:start])

		end := strings.Index(raw[start:], "}")
		if end < 0 {
			return nil, false, newValueError(v.pos, "unterminated ${...} in string")
		}

		end += start
		exprText := raw[start+2 : end]

		ref, err := ParseReference(exprText)
		if err != nil {
			return nil, false, err
		}

		target, found, err := resolveRef(v, ref, reg, visiting)
		if err != nil {
			return nil, false, err
		}

		if !found {
			allResolved = false
			sb.WriteString(raw[start : end+1])
			i = end + 1

			continue
		}

		rv, resolved, err := resolveWithVisited(target, reg, visiting)
		if err != nil {
			return nil, false, err
		}

		if !resolved {
			allResolved = false
			sb.WriteString(raw[start : end+1])
			i = end + 1

			continue
		}

		text, err := stringifyForInterpolation(rv)
		if err != nil {
			return nil, false, err
		}

		sb.WriteString(text)
		i = end + 1
	}

	if !allResolved {
		return v, false, nil
	}

	out := NewString(sb.String())
	out.SetTypeName(v.typ)

	return out, true, nil
}

func stringifyForInterpolation(v *Value) (string, error) {
	switch v.kind {
	case String:
		return v.strVal, nil
	case Integer:
		return strconv.FormatInt(v.intVal, 10), nil
	case Float:
		return formatFloat(v.floatVal), nil
	case Boolean:
		if v.boolVal {
			return "true", nil
		}

		return "false", nil
	default:
		return "", newValueError(v.pos, "cannot interpolate a %s into a string", v.kind)
	}
}
