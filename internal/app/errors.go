package service

import "errors"

// Sentinel kinds for service construction errors.
var (
	ErrNoSnapshotSource = errors.New("no snapshot source configured")
	ErrNoRedisClient    = errors.New("redis backend requires a client")
	ErrUnknownBackend   = errors.New("unknown store backend")
)
