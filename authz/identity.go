package authz

import "strings"

const (
	sectionAliases = "aliases"
	sectionGroups  = "groups"

	tokenStar          = "*"
	tokenAuthenticated = "$authenticated"
	tokenAnonymous     = "$anonymous"
)

// identitySet is the "everything this rule file can address as the
// current user" set: the literal user name, each alias it is reachable
// by (prefixed '&'), each group it is transitively a member of
// (prefixed '@'), and the authentication tokens. It is a plain set of
// interned strings.
type identitySet map[string]struct{}

func newIdentitySet(names ...string) identitySet {
	s := make(identitySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s identitySet) add(name string) bool {
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = struct{}{}
	return true
}

func (s identitySet) has(name string) bool {
	_, ok := s[name]
	return ok
}

// resolveIdentities expands user into every identity a rule entry
// could name: the literal name, matching aliases, transitive group
// membership, and the anonymous/authenticated/wildcard tokens. user is
// nil for an anonymous query.
func resolveIdentities(c Config, user *string) identitySet {
	if user == nil {
		return newIdentitySet(tokenStar, tokenAnonymous)
	}

	ids := newIdentitySet(*user)

	// Step 3: aliases that resolve to this user.
	c.EnumerateEntries(sectionAliases, func(alias, target string) bool {
		if target == *user {
			ids.add("&" + alias)
		}
		return true
	})

	// Step 4: build reverse group membership (member -> parent groups).
	reverse := map[string][]string{}
	c.EnumerateEntries(sectionGroups, func(group, members string) bool {
		for _, m := range strings.Split(members, ",") {
			m = strings.TrimSpace(m)
			if m == "" {
				continue
			}
			parent := "@" + group
			reverse[m] = append(reverse[m], parent)
		}
		return true
	})

	// Step 5: transitive closure over the reverse map. The work-list
	// only ever grows ids, and the rule set is finite, so this
	// terminates even in the presence of a cycle (cycles are instead
	// rejected earlier, at validation time).
	worklist := make([]string, 0, len(ids))
	for name := range ids {
		worklist = append(worklist, name)
	}
	for len(worklist) > 0 {
		n := len(worklist) - 1
		name := worklist[n]
		worklist = worklist[:n]
		for _, parent := range reverse[name] {
			if ids.add(parent) {
				worklist = append(worklist, parent)
			}
		}
	}

	// Step 6.
	ids.add(tokenStar)
	ids.add(tokenAuthenticated)
	return ids
}
