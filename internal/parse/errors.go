package parse

import "errors"

// Structural errors: the container format itself is unrecognizable. Content
// errors inside individual messages never surface here; those messages are
// skipped or degraded in place.
var (
	ErrNotInstagramExport = errors.New("not an instagram export: missing participants and messages")
	ErrNotAndroidExport   = errors.New("not an android messages export: missing smses root element")
)
