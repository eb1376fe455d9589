package index

import (
	"context"

	"git.home.luguber.info/inful/subtext/internal/config"
	"git.home.luguber.info/inful/subtext/internal/notes"
)

// Source yields the complete current set of notes.
type Source interface {
	Load(ctx context.Context) ([]notes.Note, error)
	// Describe names the source for logs.
	Describe() string
}

// DirSource reads notes from a directory.
type DirSource struct {
	Dir        string
	Extensions []string
}

// Load reads every note under Dir.
func (s DirSource) Load(context.Context) ([]notes.Note, error) {
	return notes.LoadDir(s.Dir, s.Extensions)
}

// Describe returns the directory path.
func (s DirSource) Describe() string { return s.Dir }

// GitSource reads notes from a git revision. Revision is resolved on every
// Load, so a branch name follows new commits.
type GitSource struct {
	Repo       string
	Revision   string
	Extensions []string
}

// Load reads the notes committed at Revision.
func (s GitSource) Load(context.Context) ([]notes.Note, error) {
	ns, _, err := notes.LoadGit(s.Repo, s.Revision, s.Extensions)
	return ns, err
}

// Describe returns "repo@revision".
func (s GitSource) Describe() string { return s.Repo + "@" + s.Revision }

// SourceFromConfig picks the git source when a repository is configured.
func SourceFromConfig(cfg config.NotesConfig) Source {
	if cfg.UsesGit() {
		return GitSource{Repo: cfg.Git.Repo, Revision: cfg.Git.Revision, Extensions: cfg.Extensions}
	}
	return DirSource{Dir: cfg.Dir, Extensions: cfg.Extensions}
}
