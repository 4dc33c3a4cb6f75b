package authz

import "strings"

// node is one node of the segment-indexed prefix tree: each node
// corresponds to one path segment, and carries both its own directly
// configured access (if any) and the min/max rights aggregated over
// its entire subtree.
type node struct {
	segment   string
	access    *Rights
	minRights Rights
	maxRights Rights
	children  map[string]*node
}

func newNode(segment string) *node {
	return &node{segment: segment}
}

func (n *node) child(segment string) *node {
	if n.children == nil {
		n.children = map[string]*node{}
	}
	c, ok := n.children[segment]
	if !ok {
		c = newNode(segment)
		n.children[segment] = c
	}
	return c
}

// splitPath tokenizes path on '/'. A leading '/', if present, is
// stripped by convention (the root is implicit and carries zero
// segments); empty intermediate segments from "//" are preserved. It
// accepts both "/trunk" and "trunk" so callers that have already
// stripped the leading slash (the lookup path) and callers that have
// not (raw rule paths) share one implementation.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

// buildTree inserts every filtered rule into a fresh prefix tree, then
// defaults the root's access, then finalizes min/max rights in a
// post-order pass.
func buildTree(rules []filteredRule) (*node, error) {
	root := newNode("")
	for _, r := range rules {
		segs := splitPath(r.path)
		n := root
		for _, s := range segs {
			n = n.child(s)
		}
		if n.access != nil {
			return nil, configErr(ErrInvalidConfig, "", "", "",
				"duplicate rule for path "+r.path)
		}
		rights := r.rights
		n.access = &rights
	}
	if root.access == nil {
		empty := Rights(0)
		root.access = &empty
	}
	finalize(root, *root.access)
	return root, nil
}

// finalize is a post-order traversal: each node N inherits effective
// rights E from its nearest ancestor with access set (or its own
// access, if set); min/max start at E, then max is widened by every
// child's max and min is narrowed by every child's min.
func finalize(n *node, inherited Rights) {
	effective := inherited
	if n.access != nil {
		effective = *n.access
	}
	n.minRights, n.maxRights = effective, effective
	for _, c := range n.children {
		finalize(c, effective)
		n.maxRights |= c.maxRights
		n.minRights &= c.minRights
	}
}
