package artifact

import (
	"os"
	"path/filepath"

	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

// WriteAtomic writes data to path via a temporary file in the same
// directory followed by a rename, so the artifact appears either
// fully on disk or not at all (spec §5 "Cancellation": "artifacts
// appear either both on disk or neither — write to temporary paths,
// then rename; on failure, remove any partial file").
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".artifact-tmp-*")
	if err != nil {
		return pipeerr.Wrap(pipeerr.Io, "failed to create temporary artifact file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return pipeerr.Wrap(pipeerr.Io, "failed to write artifact contents", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return pipeerr.Wrap(pipeerr.Io, "failed to close temporary artifact file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return pipeerr.Wrap(pipeerr.Io, "failed to finalize artifact "+path, err)
	}
	return nil
}

// WriteAllOrNothing writes every (path, data) pair atomically, and if
// any write fails, removes every file that did succeed — the pair
// (Attestation, Secrets) must land together or not at all
// (spec §3 invariant, §5 "Cancellation").
func WriteAllOrNothing(files map[string][]byte) error {
	written := make([]string, 0, len(files))
	for path, data := range files {
		if err := WriteAtomic(path, data); err != nil {
			for _, p := range written {
				os.Remove(p)
			}
			return err
		}
		written = append(written, path)
	}
	return nil
}

// Read loads the raw bytes of an artifact file.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Io, "failed to read artifact "+path, err)
	}
	return data, nil
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
