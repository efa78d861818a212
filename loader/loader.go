package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/renderspud/rsd"
)

// Document is a fully loaded RSD document: its root Block (with every
// include spliced in, transitively) plus the set of source files that
// contributed to it, in the order they were first read.
type Document struct {
	Root  *rsd.Value
	Files []string

	// Environment, when non-nil, is the process-environment fallback block
	// requested via Options.Environment. It is kept separate from Root
	// rather than merged into it, so that Serialize, FindByTypeName and
	// Root.BlockData().Names() only ever see members the document itself
	// defined; Find/FindString consult it only once an ordinary lookup at
	// Root misses.
	Environment *rsd.Value
}

// Find looks up ref in doc.Root. If that misses and ref names a single,
// unsubscripted top-level member that doc.Root doesn't define, the lookup
// falls back to doc.Environment.
func (doc *Document) Find(ref rsd.Reference) (*rsd.Value, error) {
	v, err := doc.Root.Find(ref)
	if err == nil {
		return v, nil
	}

	if doc.Environment == nil || len(ref.Parts) != 1 || ref.Parts[0].Subscript != nil {
		return nil, err
	}

	ev, ok := doc.Environment.BlockData().Get(ref.Parts[0].Name)
	if !ok {
		return nil, err
	}

	return ev, nil
}

// FindString parses s as a reference and calls Find with it.
func (doc *Document) FindString(s string) (*rsd.Value, error) {
	ref, err := rsd.ParseReference(s)
	if err != nil {
		return nil, err
	}

	return doc.Find(ref)
}

// Options controls how Load and LoadBuffer behave.
type Options struct {
	// FollowIncludes splices each `include "path";` directive's target file
	// into the tree. When false, include directives are left pending on
	// their enclosing blocks (inspectable via Value.PendingIncludes) and no
	// file beyond the entry document is read.
	FollowIncludes bool

	// Environment, when non-nil, is attached to the loaded Document as a
	// fallback store; Document.Find/FindString consult it only once an
	// ordinary lookup misses at the document root. It is never merged into
	// the document's own Block, so document content and environment
	// fallback content stay distinguishable.
	Environment *rsd.Value
}

// DefaultOptions follows includes and attaches no environment block.
func DefaultOptions() Options {
	return Options{FollowIncludes: true}
}

// Load parses the document at path and, per opts, splices in its includes
// and attaches an environment block.
func Load(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return loadFrom(path, f, filepath.Dir(path), opts)
}

// LoadBuffer parses text as a document logically named name, resolving any
// includes relative to basePath.
func LoadBuffer(text, name, basePath string, opts Options) (*Document, error) {
	return loadFrom(name, strings.NewReader(text), basePath, opts)
}

func loadFrom(name string, r io.Reader, basePath string, opts Options) (*Document, error) {
	root, err := rsd.ParseDocument(name, r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Root: root, Files: []string{name}}

	if opts.FollowIncludes {
		if err := spliceIncludes(root, basePath, doc); err != nil {
			return nil, err
		}
	}

	doc.Environment = opts.Environment

	return doc, nil
}

// spliceIncludes walks b's tree depth-first, resolving each pending include
// relative to dir (the directory of the file that declared it) and
// replacing the directive with the included file's root members at the
// position it was declared. Included files may themselves include further
// files, resolved relative to their own directory; a file that is included
// more than once along the same chain is rejected as a cycle.
func spliceIncludes(b *rsd.Value, dir string, doc *Document) error {
	return spliceIncludesVisited(b, dir, doc, map[string]bool{})
}

func spliceIncludesVisited(b *rsd.Value, dir string, doc *Document, visiting map[string]bool) error {
	if b.Kind() != rsd.BlockKind {
		return nil
	}

	pending := b.PendingIncludes()
	b.ClearPendingIncludes()

	offset := 0

	for _, inc := range pending {
		fullPath := filepath.Join(dir, inc.Path)

		if visiting[fullPath] {
			return fmt.Errorf("%s: include cycle detected on %s", inc.Pos, fullPath)
		}

		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("%s: resolving include %q: %w", inc.Pos, inc.Path, err)
		}

		visiting[fullPath] = true

		seen := false
		for _, f := range doc.Files {
			seen = seen || f == fullPath
		}

		if !seen {
			doc.Files = append(doc.Files, fullPath)
		}

		included, err := rsd.ParseDocument(fullPath, strings.NewReader(string(content)))
		if err != nil {
			delete(visiting, fullPath)
			return err
		}

		if err := spliceIncludesVisited(included, filepath.Dir(fullPath), doc, visiting); err != nil {
			delete(visiting, fullPath)
			return err
		}

		delete(visiting, fullPath)

		at := inc.At + offset

		for _, memberName := range included.BlockData().Names() {
			member, _ := included.BlockData().Get(memberName)
			b.BlockData().InsertBefore(at, memberName, member)
			// Setting the already-inserted name again keeps its position and
			// points the member's context at b instead of the included root.
			b.SetMember(memberName, member)
			at++
			offset++
		}
	}

	for _, name := range b.BlockData().Names() {
		member, _ := b.BlockData().Get(name)
		if err := spliceIncludesVisited(member, dir, doc, visiting); err != nil {
			return err
		}
	}

	return nil
}

// EnvironmentFromOS builds a Block Value of name -> string members from the
// current process environment, suitable for passing as Options.Environment.
func EnvironmentFromOS() *rsd.Value {
	list := newEnvPairList()

	for _, kv := range os.Environ() {
		i := strings.IndexByte(kv, '=')
		if i < 0 {
			continue
		}

		list.Set(kv[:i], kv[i+1:])
	}

	env := rsd.NewBlock()

	for _, p := range list.pairs {
		env.SetMember(p.Name, rsd.NewString(p.Value))
	}

	return env
}
