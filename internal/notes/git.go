package notes

import (
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
)

// LoadGit reads notes from the tree of revision in the repository at
// repoPath. The returned commit hash identifies the snapshot.
func LoadGit(repoPath, revision string, exts []string) ([]Note, string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, "", gitError(err, "open repository", repoPath, revision)
	}
	if revision == "" {
		revision = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, "", gitError(err, "resolve revision", repoPath, revision)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, "", gitError(err, "read commit", repoPath, revision)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, "", gitError(err, "read tree", repoPath, revision)
	}

	var out []Note
	err = tree.Files().ForEach(func(f *object.File) error {
		if hidden(f.Name) || !hasExtension(f.Name, exts) {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return err
		}
		n, err := New(f.Name, []byte(content))
		if err != nil {
			return err
		}
		out = append(out, n)
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, "", err
		}
		return nil, "", gitError(err, "walk tree", repoPath, revision)
	}

	slices.SortFunc(out, func(a, b Note) int { return strings.Compare(a.ID, b.ID) })
	return out, commit.Hash.String(), nil
}

func hidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func gitError(err error, op, repo, revision string) error {
	return errors.WrapError(err, errors.CategoryGit, op).
		WithContext("repo", repo).
		WithContext("revision", revision).
		Build()
}
