package notes

import (
	"path"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
)

// Note is one note read from a directory or a git tree.
type Note struct {
	// ID is the slash-separated path relative to the source root, without
	// its extension.
	ID          string
	Path        string
	Frontmatter map[string]any
	Body        string
	// Fingerprint changes whenever the frontmatter or body changes. The
	// fingerprint field itself never contributes to it.
	Fingerprint string
}

// New builds a Note from raw file content. rel is the slash-separated path
// relative to the source root.
func New(rel string, content []byte) (Note, error) {
	fm, body, _ := SplitFrontmatter(content)
	fields, err := parseFrontmatter(fm)
	if err != nil {
		return Note{}, errors.WrapError(err, errors.CategoryValidation, "invalid note frontmatter").
			WithContext("path", rel).
			Build()
	}

	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != mdfp.FingerprintField {
			hashed[k] = v
		}
	}
	canonical, err := canonicalYAML(hashed)
	if err != nil {
		return Note{}, errors.WrapError(err, errors.CategoryValidation, "unsupported frontmatter value").
			WithContext("path", rel).
			Build()
	}

	return Note{
		ID:          IDFromPath(rel),
		Path:        rel,
		Frontmatter: fields,
		Body:        string(body),
		Fingerprint: mdfp.CalculateFingerprintFromParts(canonical, string(body)),
	}, nil
}

// IDFromPath strips the extension from a slash-separated relative path.
func IDFromPath(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel))
}

func hasExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
