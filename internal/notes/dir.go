package notes

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
)

// LoadDir reads every note below dir whose extension is in exts. Hidden
// files and directories are skipped. Notes are returned sorted by ID.
func LoadDir(dir string, exts []string) ([]Note, error) {
	var out []Note
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasExtension(d.Name(), exts) {
			return nil
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		n, err := New(filepath.ToSlash(rel), content)
		if err != nil {
			return err
		}
		out = append(out, n)
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to load notes").
			WithContext("dir", dir).
			Build()
	}

	slices.SortFunc(out, func(a, b Note) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// LoadFile reads a single note. root is the directory its ID is relative to.
func LoadFile(root, file string) (Note, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return Note{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to read note").
			WithContext("path", file).
			Build()
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	return New(filepath.ToSlash(rel), content)
}
