// Package clientip extracts the originating client IP from HTTP requests,
// honoring common proxy headers before falling back to the socket address.
// The result is stored as diagnostic metadata on session records; it is
// never used for validation.
package clientip
