package keypath

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins path segments
const Separator = "/"

// Wildcard is the trailing segment that addresses a group of sibling leaves
const Wildcard = "*"

var (
	// ErrNoLeadingSlash is returned when a key path does not start with "/"
	ErrNoLeadingSlash = errors.New("key path must start with /")
	// ErrEmptySegment is returned when a key path contains "//" or ends with "/"
	ErrEmptySegment = errors.New("key path contains an empty segment")
)

// Path is an ordered sequence of segments, e.g. ["Menu", "File", "Open"]
// The zero value is the root path "/"
type Path []string

// Parse converts "/Menu/File/Open" into a Path
func Parse(s string) (Path, error) {
	if !strings.HasPrefix(s, Separator) {
		return nil, fmt.Errorf("%w: %q", ErrNoLeadingSlash, s)
	}
	if s == Separator {
		return Path{}, nil
	}
	segments := strings.Split(s[1:], Separator)
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptySegment, s)
		}
	}
	return Path(segments), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the "/"-joined form with a leading slash
func (p Path) String() string {
	return Separator + strings.Join(p, Separator)
}

// Len returns the number of segments
func (p Path) Len() int {
	return len(p)
}

// Last returns the final segment, or "" for the root path
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path without its last segment
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[: len(p)-1 : len(p)-1]
}

// Join returns a new path with the given segments appended
func (p Path) Join(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

// TrimPrefix removes prefix from p. ok is false when p does not start with prefix.
func (p Path) TrimPrefix(prefix Path) (Path, bool) {
	if len(prefix) > len(p) {
		return nil, false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return nil, false
		}
	}
	return p[len(prefix):], true
}

// IsWildcard reports whether the last segment is "*"
func (p Path) IsWildcard() bool {
	return p.Last() == Wildcard
}

// WildcardDepth counts "*" segments anywhere in the path
func (p Path) WildcardDepth() int {
	n := 0
	for _, seg := range p {
		if seg == Wildcard {
			n++
		}
	}
	return n
}

// SingleLevel reports whether the path has at most one wildcard and only in last position.
// Nested multi-value groups are not supported.
func (p Path) SingleLevel() bool {
	switch p.WildcardDepth() {
	case 0:
		return true
	case 1:
		return p.IsWildcard()
	default:
		return false
	}
}

// AsGroup replaces the last segment with "*", addressing the leaf's sibling group
func (p Path) AsGroup() Path {
	if len(p) == 0 {
		return p
	}
	return p.Parent().Join(Wildcard)
}
