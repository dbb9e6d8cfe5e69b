// Package testutil provides an in-memory Redis component for tests, backed
// by miniredis.
//
//	srv := testutil.NewComponent()
//	_ = srv.Start(ctx)
//	defer srv.Stop(ctx)
//	client, _ := redis.New(redis.Config{Enabled: true, Addr: srv.Addr()}, nil)
package testutil
