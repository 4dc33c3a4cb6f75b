// Package authz implements the path-based authorization engine of a
// version-control server: it decides whether a given user may read or
// write a given path within a named repository, based on a declarative
// rules file.
//
// The package does not parse the rules file itself; it consumes a
// Config (see config.go), an interned, read-only view over a parsed
// INI-style document. Callers build a Config with a concrete
// implementation such as internal/rules.LoadFile and hand it to Load
// to obtain a compiled, queryable Authz.
package authz
