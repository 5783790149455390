// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rotation implements a fixed-size backup ring: when the active
// file grows past a threshold, it is renamed into a numbered ring of
// backups and a fresh active file is created in its place.
//
// Backups are renamed from the oldest slot down so each step is a
// single, independently-atomic rename — a crash mid-rotation leaves a
// consistent, if incomplete, ring rather than losing data.
package rotation

import (
	"fmt"
	"os"
)

// BackupCount is N: base.log.0 … base.log.{N} rotate in place, with
// base.log.{N} overwritten on each cycle, so up to N+1 backups exist.
const BackupCount = 10

// MaxFileBytes is the rotation trigger threshold (1 MiB).
const MaxFileBytes = 1 << 20

// Rotate renames basePath's backup ring up one slot (base.{i-1} ->
// base.{i}, from i=N down to 1, so an existing base.{N} is the one
// overwritten) and
// then renames the active basePath itself into base.0. It does not
// recreate the active file; the caller does that (internal/writer) so it
// can also reset its in-memory byte count atomically with file creation.
func Rotate(basePath string, backupCount int) error {
	for i := backupCount; i >= 1; i-- {
		oldPath := backupPath(basePath, i-1)
		newPath := backupPath(basePath, i)
		if _, err := os.Stat(oldPath); err == nil {
			if err := os.Rename(oldPath, newPath); err != nil {
				return fmt.Errorf("rotation: rename %s -> %s: %w", oldPath, newPath, err)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("rotation: stat %s: %w", oldPath, err)
		}
	}
	if err := os.Rename(basePath, backupPath(basePath, 0)); err != nil {
		return fmt.Errorf("rotation: rename %s -> %s: %w", basePath, backupPath(basePath, 0), err)
	}
	return nil
}

func backupPath(basePath string, i int) string {
	return fmt.Sprintf("%s.%d", basePath, i)
}
