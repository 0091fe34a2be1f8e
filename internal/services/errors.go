package services

import "errors"

var (
	// ErrToolInvocation marks failures to run the backend temperature tool.
	// The daemon logs these and retries on the next cycle.
	ErrToolInvocation = errors.New("backend tool invocation failed")

	// ErrPersistence marks state/cache file read or write failures. On read
	// the caller falls back to defaults; on write the in-memory state stays
	// authoritative.
	ErrPersistence = errors.New("persistence failed")

	// ErrCacheMiss is returned by the disk cache when no entry exists.
	ErrCacheMiss = errors.New("cache miss")
)
