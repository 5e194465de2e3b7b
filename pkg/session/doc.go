// Package session implements the server-side session core: opaque bearer
// tokens, persisted session records, lifecycle management, and the periodic
// expiry sweep.
//
// A session is created on successful login or registration, presented by the
// client as an Authorization bearer token, and destroyed by logout, bulk
// revocation, or expiry. Tokens are 256-bit random hex strings; using opaque
// random tokens instead of signed stateless tokens makes server-side
// revocation immediate and exact at the cost of a store lookup per
// authenticated request.
//
// Expiry is enforced twice: lazily at validation time (FindByToken filters on
// the expiry) and eagerly by the Sweeper, which calls
// Manager.CleanupExpiredSessions on a fixed interval. Store-level TTL
// mechanisms (Mongo TTL index, Redis key TTL) are defense-in-depth only.
//
// Two Store implementations are provided: MongoStore (primary) and
// RedisStore (alternate, selected through SESSION_STORE at bootstrap).
package session
