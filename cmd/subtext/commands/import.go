package commands

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/logfields"
	"git.home.luguber.info/inful/subtext/internal/markdown"
	"git.home.luguber.info/inful/subtext/internal/notes"
)

// ImportCmd implements the 'import' command.
type ImportCmd struct {
	Source string `arg:"" help:"Markdown file or directory to convert"`
	Dest   string `short:"d" help:"Output directory (defaults to the notes directory from config)"`
	Force  bool   `help:"Overwrite existing .subtext files"`
}

func (i *ImportCmd) Run(g *Global, root *CLI) error {
	dest := i.Dest
	if dest == "" {
		cfg, err := root.LoadConfig()
		if err != nil {
			return err
		}
		dest = cfg.Notes.Dir
	}

	info, err := os.Stat(i.Source)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat import source").
			WithContext("path", i.Source).
			Build()
	}

	if !info.IsDir() {
		return i.convert(g, i.Source, filepath.Join(dest, subtextName(filepath.Base(i.Source))))
	}

	count := 0
	err = filepath.WalkDir(i.Source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != i.Source {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(p) {
			return nil
		}
		rel, err := filepath.Rel(i.Source, p)
		if err != nil {
			return err
		}
		count++
		return i.convert(g, p, filepath.Join(dest, subtextName(rel)))
	})
	if err != nil {
		return err
	}
	slog.Info("Import complete", logfields.Path(dest), logfields.Notes(count))
	return nil
}

func (i *ImportCmd) convert(g *Global, src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read markdown").
			WithContext("path", src).
			Build()
	}
	if _, err := os.Stat(dst); err == nil && !i.Force {
		return errors.ValidationError("destination already exists (use --force to overwrite)").
			WithContext("path", dst).
			Build()
	}

	fm, body, had := notes.SplitFrontmatter(content)
	text, err := markdown.ToSubtext(body)
	if err != nil {
		return errors.WrapError(err, errors.CategoryParse, "failed to convert markdown").
			WithContext("path", src).
			Build()
	}

	var out bytes.Buffer
	if had {
		out.WriteString("---\n")
		out.Write(fm)
		if len(fm) > 0 && fm[len(fm)-1] != '\n' {
			out.WriteByte('\n')
		}
		out.WriteString("---\n")
	}
	out.WriteString(text)

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create destination directory").
			WithContext("path", dst).
			Build()
	}
	if err := os.WriteFile(dst, out.Bytes(), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write note").
			WithContext("path", dst).
			Build()
	}
	_, err = fmt.Fprintf(g.out(), "%s -> %s\n", src, dst)
	return err
}

func isMarkdown(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func subtextName(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + ".subtext"
}
