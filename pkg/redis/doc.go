// Package redis provides helpers for connecting to a Redis server.
//
// It wraps the go-redis client with a retrying Connect driven by
// environment configuration and a ping-based Healthcheck. Redis backs the
// alternate session store, where key TTLs give native expiry of session
// records.
package redis
