package audit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends one entry per decision to a Redis stream via
// XADD. It never reads the stream back; CheckAccess's data flow stays
// exactly (rules, repo, user) -> ... -> bool, with the stream write
// happening strictly after the decision is already made.
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink wires a go-redis client to a named stream. The caller
// owns the client's lifecycle (Close it when done); RedisSink does not
// take ownership.
func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	return &RedisSink{client: client, stream: stream}
}

func (s *RedisSink) Record(ctx context.Context, d Decision) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"repo":      d.Repo,
			"path":      d.Path,
			"user":      d.User,
			"required":  d.Required,
			"recursive": strconv.FormatBool(d.Recursive),
			"allowed":   strconv.FormatBool(d.Allowed),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("audit: redis xadd to %s: %w", s.stream, err)
	}
	return nil
}
