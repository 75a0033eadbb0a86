// Package auth implements the client-side session core for the astro-site
// front end: a session singleton hydrated from a persisted bearer token,
// credential operations against the remote astro-site API, and the pure
// guard/gate decisions the page layer consumes.
//
// Session lifecycle:
//   - The Manager owns the session and moves it through an explicit phase
//     machine (Idle, Initializing, Authenticating, Ready). Initialize runs
//     exactly once per process: it reads the persisted token, resolves it to a
//     user profile via the remote API, and falls back to an anonymous session
//     on any failure, deleting the stale token.
//   - Login and Register are single round trips to the remote API; every
//     transport or validation failure collapses into a Result the calling form
//     can render. Logout is synchronous and idempotent.
//
// Guards:
//   - Guard maps (session, loading) to a render decision (loading, fallback,
//     denied, allow) with no side effects.
//   - AdminGate maps (session, loading, route) to a navigation intent; a thin
//     router adapter executes the redirect so the decision stays testable.
//
// Token persistence lives behind TokenStore; MemoryTokenStore serves tests
// and BunTokenStore persists the slot in a SQLite table via Bun.
package auth
