// Package auth provides the user directory, password-based registration and
// login, and the bearer-token authentication middleware.
//
// The middleware is the only consumer of session records on the request
// path. It composes two explicit lookups, session by token then user by id,
// keeping the session store decoupled from the user schema. Every rejection
// carries a distinct signal: missing credential, persistence outage, invalid
// or expired session, or a session whose owner no longer exists (which is
// deleted as a side effect).
package auth
