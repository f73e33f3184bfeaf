package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
)

// ErrLocked is returned when another session holds the scratch lock.
var ErrLocked = errors.New("another frame-render session is using the scratch directory")

// AcquireLock takes an exclusive, non-blocking lock on path so two sessions
// never stage into the same scratch space. Call Unlock on the result when
// the session ends.
func AcquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	log.Debug().Str("path", path).Msg("Session lock acquired")
	return lock, nil
}
