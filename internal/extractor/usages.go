package extractor

// Usage records where a key path was first seen
type Usage struct {
	Key   string
	File  string
	Line  int
	Multi bool
}

// Usages is an insertion-ordered set of usages keyed by key path. The first
// file to reference a key owns it; later references are ignored.
type Usages struct {
	order []string
	byKey map[string]Usage
}

// NewUsages creates an empty set
func NewUsages() *Usages {
	return &Usages{byKey: make(map[string]Usage)}
}

// Add records u unless its key is already present. It reports whether u was added.
func (u *Usages) Add(usage Usage) bool {
	if _, exists := u.byKey[usage.Key]; exists {
		return false
	}
	u.byKey[usage.Key] = usage
	u.order = append(u.order, usage.Key)
	return true
}

// AddMatches records every match under file
func (u *Usages) AddMatches(file string, matches []Match) {
	for _, m := range matches {
		u.Add(Usage{Key: m.Key, File: file, Line: m.Line, Multi: m.Multi})
	}
}

// Get returns the usage recorded for key
func (u *Usages) Get(key string) (Usage, bool) {
	usage, ok := u.byKey[key]
	return usage, ok
}

// Keys returns the recorded keys in insertion order
func (u *Usages) Keys() []string {
	keys := make([]string, len(u.order))
	copy(keys, u.order)
	return keys
}

// All returns the recorded usages in insertion order
func (u *Usages) All() []Usage {
	all := make([]Usage, 0, len(u.order))
	for _, key := range u.order {
		all = append(all, u.byKey[key])
	}
	return all
}

// Len returns the number of distinct keys
func (u *Usages) Len() int {
	return len(u.order)
}
