package artifact

import (
	"github.com/gofrs/flock"

	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

// ScopeLock is an advisory, single-writer lock on a provider scope,
// held for the duration of an artifact write. Concurrent provers
// against the same scope are disallowed (spec §5 "Shared resources").
type ScopeLock struct {
	fl *flock.Flock
}

// AcquireScopeLock takes an exclusive, non-blocking flock on
// <dir>/<scope>.lock, failing if another writer already holds it.
func AcquireScopeLock(dir, scope string) (*ScopeLock, error) {
	fl := flock.New(path(dir, scope, kindLock))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Io, "failed to acquire scope lock", err)
	}
	if !locked {
		return nil, pipeerr.New(pipeerr.Io, "scope is already being written by another prover")
	}
	return &ScopeLock{fl: fl}, nil
}

// Release unlocks the scope lock. It is safe to call once the caller
// is done writing, whether the write succeeded or failed.
func (l *ScopeLock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return pipeerr.Wrap(pipeerr.Io, "failed to release scope lock", err)
	}
	return nil
}
