// Package audit records every access decision to an append-only sink.
// It is strictly write-only observability: CheckAccess never reads
// back from it, and no compiled tree is stored in or reconstructed
// from a sink, so it does not reintroduce the cross-query tree caching
// the core engine explicitly rules out.
package audit

import (
	"context"

	log "github.com/golang/glog"
)

// Decision is one recorded access check.
type Decision struct {
	Repo      string
	Path      string
	User      string
	Required  string
	Recursive bool
	Allowed   bool
}

// Sink records decisions. Implementations must not block the caller
// for long; CheckAccess itself is synchronous and single-threaded per
// query.
type Sink interface {
	Record(ctx context.Context, d Decision) error
}

// NoopSink discards every decision. It is the default when no audit
// backend is configured.
type NoopSink struct{}

func (NoopSink) Record(context.Context, Decision) error { return nil }

// LoggingSink writes each decision through glog at V(2), the same
// verbosity authz.Authz.CheckAccess itself logs decisions at. Useful
// standing in for a real sink in environments with no Redis.
type LoggingSink struct{}

func (LoggingSink) Record(_ context.Context, d Decision) error {
	log.V(2).Infof("audit: repo=%q path=%q user=%q required=%s recursive=%t allowed=%t",
		d.Repo, d.Path, d.User, d.Required, d.Recursive, d.Allowed)
	return nil
}
