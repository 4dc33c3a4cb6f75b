package authz

import "strings"

// checkAccess walks root segment by segment along path, using the
// min/max rights aggregated at each node to short-circuit before
// reaching a leaf whenever possible. path has already had its leading
// '/' stripped by the caller (the public API boundary requires a
// leading '/'; this private walk operates on the stripped form).
func checkAccess(root *node, path string, required Rights, recursive bool) bool {
	current := root
	access := *root.access
	minR, maxR := root.minRights, root.maxRights

	for _, seg := range normalizeSegments(path) {
		// Shortcut A: no descendant can grant what is missing
		// everywhere in this subtree.
		if !maxR.Has(required) {
			return false
		}
		// Shortcut B: every descendant already grants it.
		if minR.Has(required) {
			return true
		}
		// Shortcut C: uniform over the subtree.
		if (minR & required) == (maxR & required) {
			return (minR & required) == required
		}

		if current == nil {
			break
		}
		child, ok := current.children[seg]
		if !ok {
			current = nil
			minR, maxR = access, access
			continue
		}
		current = child
		if current.access != nil {
			access = *current.access
		}
		minR, maxR = current.minRights, current.maxRights
	}

	if recursive {
		return minR.Has(required)
	}
	return access.Has(required)
}

// normalizeSegments tokenizes path the way splitPath does, but first
// collapses runs of internal '/' and a trailing '/' to single
// separators.
func normalizeSegments(path string) []string {
	collapsed := path
	for strings.Contains(collapsed, "//") {
		collapsed = strings.ReplaceAll(collapsed, "//", "/")
	}
	if collapsed != "/" {
		collapsed = strings.TrimSuffix(collapsed, "/")
	}
	return splitPath(collapsed)
}
