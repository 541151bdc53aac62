package executor

import (
	"io"
	"os"
	"path/filepath"

	"github.com/perlytiara/modsync/pkg/errors"
)

// copyTree copies src recursively into dest, overwriting files that already
// exist at the same relative path. Existing files not present in src are
// left alone.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileSystem, "walking overrides tree at %s", path)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileSystem, "resolving %s", path)
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrFileSystem, "creating %s", target)
			}
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "opening %s", src)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "creating %s", filepath.Dir(dest))
	}
	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "creating %s", dest)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, errors.ErrFileSystem, "copying %s", dest)
	}
	return nil
}
