// Package storage talks to the file host that owns the workbooks.
// Semantics are whole-file: download all bytes, upload all bytes.
package storage

import (
	"context"
	"errors"
	"strings"
)

// Gateway is the storage backend contract. Implementations must report
// a held file lock through an error satisfying IsLocked so the retry
// wrapper can tell transient from fatal.
type Gateway interface {
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path string, data []byte, overwrite bool) error
}

// ErrLocked marks the transient condition where the backing file is
// held open elsewhere (typically a native Excel session) and the write
// must be retried later.
var ErrLocked = errors.New("arquivo bloqueado por outro processo")

// IsLocked classifies an error as a transient file lock. Besides the
// sentinel it recognizes the message shapes SharePoint produces, which
// vary across tenants.
func IsLocked(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrLocked) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "spfilelockexception") ||
		strings.Contains(msg, "file is locked") ||
		strings.Contains(msg, "resource is locked")
}
