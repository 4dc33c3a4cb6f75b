package authz

import (
	"strings"

	log "github.com/golang/glog"
)

// reservedSections are the two section names this engine reserves for
// its own bookkeeping; every other section name is a path rule (scoped
// or unscoped).
var reservedSections = []string{sectionAliases, sectionGroups}

// Authz is a validated rules document, ready to answer CheckAccess
// queries for any (repo, path, user) combination. Caching a compiled
// tree across queries is explicitly out of scope: each CheckAccess
// call resolves its own identity set, filters the applicable rules,
// and builds a fresh prefix tree.
//
// Authz is safe for concurrent use: it holds only the immutable parsed
// Config produced at load time.
type Authz struct {
	config Config
	file   string
}

// Load reads and validates a rules document from a Config built by an
// external retrieval+parse collaborator (see internal/rules and
// internal/retrieval), and an optional separate groups Config. file is
// used only to decorate error messages; it need not be a real
// filesystem path.
func Load(c Config, groupsFile Config, file string) (*Authz, error) {
	if groupsFile != nil {
		if c.HasSection(sectionGroups) {
			return nil, configErr(ErrInvalidConfig, file, sectionGroups, "",
				"Authz file cannot contain any groups when global groups are being used")
		}
		c = mergedConfig{main: c, groups: groupsFile}
	}

	if err := validate(c, file); err != nil {
		return nil, err
	}

	log.V(1).Infof("authz: loaded and validated rules from %s", file)
	return &Authz{config: c, file: file}, nil
}

// CheckAccess answers one access query.
//
// repo is the empty string when the caller has no repository context;
// it then matches only unscoped rule sections. user is nil for an
// anonymous query. path is nil to ask "does the user have any access
// anywhere in the repo" (answered from root.max_rights alone); when
// non-nil it must begin with '/'. required must not include Recursive
// semantics of its own — recursive is a separate argument.
func (a *Authz) CheckAccess(repo string, path *string, user *string, required Rights, recursive bool) (bool, error) {
	if path != nil && !strings.HasPrefix(*path, "/") {
		return false, configErr(ErrPrecondition, a.file, "", "", "path must begin with /: "+*path)
	}

	ids := resolveIdentities(a.config, user)
	rules := filterSections(a.config, repo, ids)
	root, err := buildTree(rules)
	if err != nil {
		return false, err
	}

	var allowed bool
	if path == nil {
		allowed = root.maxRights.Has(required)
	} else {
		allowed = checkAccess(root, strings.TrimPrefix(*path, "/"), required, recursive)
	}

	logDecision(repo, path, user, required, recursive, allowed)
	return allowed, nil
}

func logDecision(repo string, path, user *string, required Rights, recursive bool, allowed bool) {
	u := "(anonymous)"
	if user != nil {
		u = *user
	}
	p := "(any)"
	if path != nil {
		p = *path
	}
	verb := "denied"
	if allowed {
		verb = "granted"
	}
	log.V(2).Infof("authz: %s %s access for %q on repo=%q path=%s required=%s recursive=%t",
		verb, u, repo, repo, p, required, recursive)
}

// mergedConfig presents a main rules Config and a separate groups
// Config as one Config: when a groups file is supplied, [groups]
// entries come from it exclusively, while every other section still
// comes from main.
type mergedConfig struct {
	main   Config
	groups Config
}

func (m mergedConfig) HasSection(name string) bool {
	if name == sectionGroups {
		return m.groups.HasSection(sectionGroups)
	}
	return m.main.HasSection(name)
}

func (m mergedConfig) EnumerateSections(visit Visitor) {
	stopped := false
	m.main.EnumerateSections(func(name, _ string) bool {
		if !visit(name, "") {
			stopped = true
			return false
		}
		return true
	})
	if !stopped && m.groups.HasSection(sectionGroups) {
		visit(sectionGroups, "")
	}
}

func (m mergedConfig) EnumerateEntries(section string, visit Visitor) {
	if section == sectionGroups {
		m.groups.EnumerateEntries(sectionGroups, visit)
		return
	}
	m.main.EnumerateEntries(section, visit)
}

func (m mergedConfig) Get(section, key string) (string, bool) {
	if section == sectionGroups {
		return m.groups.Get(sectionGroups, key)
	}
	return m.main.Get(section, key)
}
