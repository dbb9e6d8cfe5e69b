// Package redis provides a go-redis client wrapper with restkit logging and
// component lifecycle, plus a Redis-backed history store for the REST client.
//
// # Shared history
//
// HistoryStore keeps response history in Redis so several client processes
// can share one diagnostic log:
//
//	rc, _ := redis.New(redis.Config{Enabled: true, Addr: "localhost:6379", HistoryMaxEntries: 500}, nil)
//	client, _ := httpclient.NewClient(transport, cfg, httpclient.WithHistoryStore(redis.NewHistoryStore(rc)))
package redis
