// Package resilience provides admission control for outbound calls.
//
//   - RateLimiter: a token bucket on golang.org/x/time/rate that callers
//     either poll (TryAcquire) or block on (Acquire) under a context.
//   - Bulkhead: bounds concurrent access to a section; a single-slot
//     bulkhead with a negative MaxWait serializes callers until their
//     context ends.
//
//	rl := resilience.NewRateLimiter(resilience.PerMinute("reddit", 60))
//	waited, err := rl.Acquire(ctx)
package resilience
