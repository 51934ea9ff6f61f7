//go:build !windows

package kmlout

import "os"

// osReplace moves the finished KML over dest. Both live in the same
// directory, so the rename never crosses a filesystem.
func osReplace(tmpPath, dest string) error {
	return os.Rename(tmpPath, dest)
}

// syncDir flushes the directory entry so the new name survives a crash.
// Callers ignore the error: some filesystems refuse fsync on directories.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
