package langxml

import "github.com/jenian/langkeys/internal/keypath"

// LeafPaths returns the full path of every leaf element below root, in
// document order. The root's own name is the first segment of each path.
// Sibling leaves sharing a name yield duplicate paths; they are kept because
// that is how multi-value keys are declared.
func LeafPaths(root *Element) []string {
	if root == nil {
		return nil
	}
	var paths []string
	collectLeaves(root, keypath.Path{root.Name}, &paths)
	return paths
}

func collectLeaves(el *Element, path keypath.Path, out *[]string) {
	for _, child := range el.Children {
		childPath := path.Join(child.Name)
		if child.IsLeaf() {
			*out = append(*out, childPath.String())
			continue
		}
		collectLeaves(child, childPath, out)
	}
}
