package authz

import "strings"

// filteredRule is the result of collapsing one path-rule section
// against one identity set.
type filteredRule struct {
	path   string
	rights Rights
}

// filterSections walks every section in the document, keeps the ones
// that are path rules scoped to repo (or unscoped), and collapses each
// to an aggregated Rights value for ids. Sections that are not path
// rules, or that are scoped to a different repository, or in which no
// entry matched, contribute nothing.
func filterSections(c Config, repo string, ids identitySet) []filteredRule {
	var out []filteredRule
	c.EnumerateSections(func(name, _ string) bool {
		pathPart, ok := pathRuleSection(name, repo)
		if !ok {
			return true
		}

		var acc Rights
		matched := false
		c.EnumerateEntries(name, func(key, value string) bool {
			k := key
			inverted := false
			if strings.HasPrefix(k, "~") {
				inverted = true
				k = k[1:]
			}
			if ids.has(k) == inverted {
				return true
			}
			matched = true
			acc |= parseRightsValue(value)
			return true
		})

		if matched {
			out = append(out, filteredRule{path: pathPart, rights: acc})
		}
		return true
	})
	return out
}

// pathRuleSection reports whether name is a path-rule section that
// applies to repo, and if so returns its path part. name is either
// "/abs/path" (applies to every repository) or "repo_name:/abs/path"
// (scoped). Reserved sections (aliases, groups) and any other
// unknown/unprefixed name are not path rules.
func pathRuleSection(name, repo string) (string, bool) {
	section, pathPart := name, name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		section, pathPart = name[:i], name[i+1:]
		if section != repo {
			return "", false
		}
	}
	// An unscoped section (no "repo:" prefix) applies to every
	// repository, including the empty-string repo.
	if !strings.HasPrefix(pathPart, "/") {
		return "", false
	}
	return pathPart, true
}
