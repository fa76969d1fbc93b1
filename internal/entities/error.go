package entities

import "errors"

var (
	ErrNotFound       = errors.New("entity not found")
	ErrStoreCorrupt   = errors.New("persisted store is corrupt")
	ErrUnknownSlot    = errors.New("unknown slot label")
	ErrInvalidPayload = errors.New("upstream payload missing required fields")
	ErrNoCredential   = errors.New("no API credential configured")
	ErrCacheMiss      = errors.New("cache miss")
)
