// Package loader drives the parser end to end: it reads a document (from a
// path or an in-memory buffer), splices in `include "path";` directives,
// and optionally attaches an environment block that Document.Find and
// Document.FindString fall back to on a top-level miss. rsd.Resolve does not
// consult the environment block.
package loader

// envPair is one NAME=VALUE entry collected from the process environment,
// kept in the order os.Environ() returned it so the environment block's
// member order is stable across loads.
type envPair struct {
	Name  string
	Value string
}

// envPairList is an insertion-ordered, name-deduplicating collection of
// envPairs, adapted from the teacher's attribute-list helper (the same
// "append, then Set overwrites by key" shape, here keyed on environment
// variable name instead of a markup attribute name).
type envPairList struct {
	pairs []envPair
}

func newEnvPairList() envPairList {
	return envPairList{}
}

func (l *envPairList) Len() int {
	return len(l.pairs)
}

func (l *envPairList) Add(name, value string) {
	l.pairs = append(l.pairs, envPair{Name: name, Value: value})
}

// Set overwrites an existing entry for name, or appends a new one. Reports
// whether an existing entry was overwritten.
func (l *envPairList) Set(name, value string) bool {
	if existing := l.get(name); existing != nil {
		existing.Value = value
		return true
	}

	l.Add(name, value)

	return false
}

func (l *envPairList) get(name string) *envPair {
	for i := range l.pairs {
		if l.pairs[i].Name == name {
			return &l.pairs[i]
		}
	}

	return nil
}
