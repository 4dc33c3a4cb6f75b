package authz

import (
	"path"
	"strings"
)

// validate is a best-effort static check of the raw config, reporting
// the first structural error found. It does not prove rules are
// semantically useful, only that they are structurally referable.
func validate(c Config, file string) error {
	aliases := map[string]bool{}
	c.EnumerateEntries(sectionAliases, func(name, _ string) bool {
		aliases[name] = true
		return true
	})

	groups := map[string]bool{}
	c.EnumerateEntries(sectionGroups, func(name, _ string) bool {
		groups[name] = true
		return true
	})

	if err := validateGroups(c, groups, aliases, file); err != nil {
		return err
	}
	return validatePathRuleSections(c, groups, aliases, file)
}

func validateGroups(c Config, groups, aliases map[string]bool, file string) error {
	var err error
	c.EnumerateEntries(sectionGroups, func(group, members string) bool {
		visited := map[string]bool{group: true}
		if e := checkGroupMembers(c, group, members, groups, aliases, visited, file); e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}

// checkGroupMembers validates one group's member list and follows
// every "@group" reference transitively to detect cycles, using the
// set of groups on the current reference chain (a group reached twice
// through different chains is not a cycle).
func checkGroupMembers(c Config, group, members string, groups, aliases map[string]bool, visited map[string]bool, file string) error {
	for _, tok := range strings.Split(members, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		switch {
		case strings.HasPrefix(tok, "@"):
			ref := tok[1:]
			if !groups[ref] {
				return configErr(ErrInvalidConfig, file, sectionGroups, group,
					"undefined group reference "+tok)
			}
			if visited[ref] {
				return configErr(ErrInvalidConfig, file, sectionGroups, group,
					"circular dependency between groups "+group+" and "+ref)
			}
			visited[ref] = true
			refMembers, _ := c.Get(sectionGroups, ref)
			if err := checkGroupMembers(c, ref, refMembers, groups, aliases, visited, file); err != nil {
				return err
			}
			delete(visited, ref)
		case strings.HasPrefix(tok, "&"):
			ref := tok[1:]
			if !aliases[ref] {
				return configErr(ErrInvalidConfig, file, sectionGroups, group,
					"undefined alias reference "+tok)
			}
		}
	}
	return nil
}

func validatePathRuleSections(c Config, groups, aliases map[string]bool, file string) error {
	var err error
	c.EnumerateSections(func(name, _ string) bool {
		pathPart := name
		if i := strings.IndexByte(name, ':'); i >= 0 {
			pathPart = name[i+1:]
		}
		if !strings.HasPrefix(pathPart, "/") {
			// Not a path-rule section (aliases, groups, or anything
			// else); nothing further to validate here.
			return true
		}
		if e := validateCanonicalPath(pathPart, file, name); e != nil {
			err = e
			return false
		}
		if e := validateEntries(c, name, groups, aliases, file); e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}

// validateCanonicalPath rejects "." / ".." components, redundant "/",
// and a trailing "/" except for the root itself.
func validateCanonicalPath(p, file, section string) error {
	if p != "/" && strings.HasSuffix(p, "/") {
		return configErr(ErrInvalidConfig, file, section, "",
			"non-canonical path: trailing /")
	}
	if strings.Contains(p, "//") {
		return configErr(ErrInvalidConfig, file, section, "",
			"non-canonical path: redundant /")
	}
	clean := path.Clean(p)
	if clean != p && !(p == "/" && clean == "/") {
		return configErr(ErrInvalidConfig, file, section, "",
			"non-canonical path: use "+clean+" instead of "+p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return configErr(ErrInvalidConfig, file, section, "",
				"non-canonical path: contains "+seg+" component")
		}
	}
	return nil
}

func validateEntries(c Config, section string, groups, aliases map[string]bool, file string) error {
	var err error
	c.EnumerateEntries(section, func(key, value string) bool {
		if e := validateKey(key, groups, aliases, file, section); e != nil {
			err = e
			return false
		}
		if e := validateValue(value, file, section, key); e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}

// validateKey checks one entry key: at most one leading '~'; a
// '@'/'&'/'$' prefix must resolve against the matching section (or be
// one of the two recognized tokens); anything else is a bare user
// literal, always valid.
func validateKey(key string, groups, aliases map[string]bool, file, section string) error {
	k := key
	if strings.HasPrefix(k, "~") {
		k = k[1:]
		if strings.HasPrefix(k, "~") {
			return configErr(ErrInvalidConfig, file, section, key,
				"doubly negated rule")
		}
		if k == tokenStar {
			return configErr(ErrInvalidConfig, file, section, key,
				"~* matches no one")
		}
	}
	switch {
	case strings.HasPrefix(k, "@"):
		if !groups[k[1:]] {
			return configErr(ErrInvalidConfig, file, section, key,
				"undefined group reference "+k)
		}
	case strings.HasPrefix(k, "&"):
		if !aliases[k[1:]] {
			return configErr(ErrInvalidConfig, file, section, key,
				"undefined alias reference "+k)
		}
	case strings.HasPrefix(k, "$"):
		if k != tokenAnonymous && k != tokenAuthenticated {
			return configErr(ErrInvalidConfig, file, section, key,
				"unknown token "+k)
		}
	}
	return nil
}

// validateValue rejects any character outside {'r', 'w', whitespace}.
func validateValue(value, file, section, key string) error {
	for _, c := range value {
		switch c {
		case 'r', 'w', ' ', '\t':
		default:
			return configErr(ErrInvalidConfig, file, section, key,
				"rule value contains disallowed character "+string(c))
		}
	}
	return nil
}
