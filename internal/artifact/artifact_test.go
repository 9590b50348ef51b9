package artifact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAtomicThenRead(t *testing.T) {
	dir := t.TempDir()
	p := AttestationPath(dir, "wise")

	require.NoError(t, WriteAtomic(p, []byte("hello")))
	require.True(t, Exists(p))

	data, err := Read(p)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestWriteAllOrNothingRollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "wise.attestation")
	bad := filepath.Join(dir, "missing-dir", "wise.secrets")

	err := WriteAllOrNothing(map[string][]byte{
		good: []byte("a"),
		bad:  []byte("b"),
	})
	require.Error(t, err)
	require.False(t, Exists(good))
}

func TestScopeLockRejectsConcurrentAcquire(t *testing.T) {
	dir := t.TempDir()
	lock, err := AcquireScopeLock(dir, "wise")
	require.NoError(t, err)

	_, err = AcquireScopeLock(dir, "wise")
	require.Error(t, err)

	require.NoError(t, lock.Release())

	lock2, err := AcquireScopeLock(dir, "wise")
	require.NoError(t, err)
	require.NoError(t, lock2.Release())
}
