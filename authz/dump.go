package authz

import "sort"

// TreeDump is a plain, serializable snapshot of one compiled prefix
// tree, for operator inspection; the tree itself is otherwise opaque
// once built. cmd/authzctl's "dump" subcommand renders this as YAML;
// authz itself stays free of any encoding dependency.
type TreeDump struct {
	Segment string      `yaml:"segment"`
	Access  string      `yaml:"access,omitempty"`
	Min     string      `yaml:"min_rights"`
	Max     string      `yaml:"max_rights"`
	Sub     []*TreeDump `yaml:"children,omitempty"`
}

// Dump compiles the rules applicable to (repo, user) and returns a
// serializable snapshot of the resulting tree. It is a read-only
// diagnostic: it never mutates a, and it builds its own tree exactly
// as CheckAccess would, so the dump always reflects the rules file as
// currently loaded.
func (a *Authz) Dump(repo string, user *string) (*TreeDump, error) {
	ids := resolveIdentities(a.config, user)
	rules := filterSections(a.config, repo, ids)
	root, err := buildTree(rules)
	if err != nil {
		return nil, err
	}
	return dumpNode(root), nil
}

func dumpNode(n *node) *TreeDump {
	d := &TreeDump{
		Segment: n.segment,
		Min:     n.minRights.String(),
		Max:     n.maxRights.String(),
	}
	if n.access != nil {
		d.Access = n.access.String()
	}
	segs := make([]string, 0, len(n.children))
	for seg := range n.children {
		segs = append(segs, seg)
	}
	sort.Strings(segs)
	for _, seg := range segs {
		d.Sub = append(d.Sub, dumpNode(n.children[seg]))
	}
	return d
}
