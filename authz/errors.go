package authz

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers compare with errors.Is rather than
// inspecting strings.
var (
	// ErrInvalidConfig is returned when the validator rejects a rules
	// file: unknown group/alias reference, a group cycle, an invalid
	// token, a doubly-negated rule, a disallowed rule character, a
	// non-canonical path in a section name, or reserved-section
	// misuse.
	ErrInvalidConfig = errors.New("authz: invalid configuration")

	// ErrIllegalTarget is returned when the rules file named by a
	// repository-relative URL is not a file, or does not exist, once
	// resolved inside a repository.
	ErrIllegalTarget = errors.New("authz: illegal target")

	// ErrReposNotFound is returned when a rules-file URL names a
	// repository that cannot be located on disk.
	ErrReposNotFound = errors.New("authz: repository not found")

	// ErrPrecondition is returned when a query is made against a
	// well-formed, loaded Authz with a malformed argument, e.g. a path
	// that does not begin with '/'. It is the only error kind that can
	// surface at query time; a loaded Authz is otherwise infallible.
	ErrPrecondition = errors.New("authz: precondition violated")
)

// ConfigError decorates one of the sentinel kinds above with the
// structural context (file, section, key) a caller needs to fix an
// authz file, and chains the original cause so both are visible.
type ConfigError struct {
	Kind    error
	File    string
	Section string
	Key     string
	Detail  string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := e.Detail
	if e.Section != "" {
		if e.Key != "" {
			msg = fmt.Sprintf("%s: section %q key %q: %s", e.File, e.Section, e.Key, msg)
		} else {
			msg = fmt.Sprintf("%s: section %q: %s", e.File, e.Section, msg)
		}
	} else if e.File != "" {
		msg = fmt.Sprintf("%s: %s", e.File, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes Kind so errors.Is(err, authz.ErrInvalidConfig) works
// via the standard chain too; Is below covers the common case directly.
func (e *ConfigError) Unwrap() error {
	return e.Kind
}

// Is lets errors.Is(err, authz.ErrInvalidConfig) succeed for any
// *ConfigError of that kind, without requiring callers to also match
// the wrapped cause.
func (e *ConfigError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func configErr(kind error, file, section, key, detail string) error {
	return &ConfigError{Kind: kind, File: file, Section: section, Key: key, Detail: detail}
}
