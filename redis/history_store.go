package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/restkit/httpclient"
)

// appendScript records an entry keyed by response ID. KEYS[1] is the ordered
// ID list and KEYS[2] the entry hash. Known IDs are rewritten in place so
// their position is kept. ARGV: id, json, max entries, ttl in ms.
var appendScript = goredis.NewScript(`
local fresh = redis.call('HEXISTS', KEYS[2], ARGV[1]) == 0
redis.call('HSET', KEYS[2], ARGV[1], ARGV[2])
if fresh then
  redis.call('RPUSH', KEYS[1], ARGV[1])
  local max = tonumber(ARGV[3])
  local over = redis.call('LLEN', KEYS[1]) - max
  if max > 0 and over > 0 then
    local old = redis.call('LRANGE', KEYS[1], 0, over - 1)
    redis.call('HDEL', KEYS[2], unpack(old))
    redis.call('LTRIM', KEYS[1], over, -1)
  end
end
local ttl = tonumber(ARGV[4])
if ttl > 0 then
  redis.call('PEXPIRE', KEYS[1], ttl)
  redis.call('PEXPIRE', KEYS[2], ttl)
end
return fresh and 1 or 0
`)

// entriesScript returns the entry payloads in list order.
var entriesScript = goredis.NewScript(`
local ids = redis.call('LRANGE', KEYS[1], 0, -1)
if #ids == 0 then
  return {}
end
return redis.call('HMGET', KEYS[2], unpack(ids))
`)

// HistoryStore keeps client history in Redis: an ordered list of response
// IDs next to a hash of JSON entries. It implements httpclient.HistoryStore.
type HistoryStore struct {
	client   *Client
	orderKey string
	dataKey  string
	max      int
	ttl      time.Duration
}

var _ httpclient.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a store using the client's history settings.
func NewHistoryStore(client *Client) *HistoryStore {
	cfg := client.Config()
	ttl, _ := parseDuration(cfg.HistoryTTL)
	return &HistoryStore{
		client:   client,
		orderKey: cfg.HistoryKey + ":order",
		dataKey:  cfg.HistoryKey + ":entries",
		max:      cfg.HistoryMaxEntries,
		ttl:      ttl,
	}
}

func (s *HistoryStore) keys() []string {
	return []string{s.orderKey, s.dataKey}
}

// Append records entry, refreshing it in place when its response ID is known.
func (s *HistoryStore) Append(ctx context.Context, entry httpclient.HistoryEntry) error {
	if entry.Response == nil {
		return fmt.Errorf("history append: nil response")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("history marshal %s: %w", entry.Response.ID, err)
	}
	err = appendScript.Run(ctx, s.client.rdb, s.keys(),
		entry.Response.ID, data, s.max, s.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("history append %s: %w", entry.Response.ID, err)
	}
	return nil
}

// Entries returns the stored entries in recording order.
func (s *HistoryStore) Entries(ctx context.Context) ([]httpclient.HistoryEntry, error) {
	raw, err := entriesScript.Run(ctx, s.client.rdb, s.keys()).Slice()
	if err != nil {
		return nil, fmt.Errorf("history load: %w", err)
	}

	entries := make([]httpclient.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		payload, ok := item.(string)
		if !ok {
			continue
		}
		var e httpclient.HistoryEntry
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("history unmarshal: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Len returns the number of stored entries.
func (s *HistoryStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.rdb.LLen(ctx, s.orderKey).Result()
	if err != nil {
		return 0, fmt.Errorf("history len: %w", err)
	}
	return int(n), nil
}

// Clear removes every entry.
func (s *HistoryStore) Clear(ctx context.Context) error {
	if err := s.client.rdb.Del(ctx, s.keys()...).Err(); err != nil {
		return fmt.Errorf("history clear: %w", err)
	}
	return nil
}
