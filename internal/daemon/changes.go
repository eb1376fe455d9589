package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/subtext/internal/logfields"
	"git.home.luguber.info/inful/subtext/internal/notes"
)

// handleChanges reindexes changed note files and removes deleted ones.
func (d *Daemon) handleChanges(ctx context.Context, paths []string) {
	root, err := filepath.Abs(d.cfg.Notes.Dir)
	if err != nil {
		d.logger.Error("Failed to resolve notes dir", logfields.Error(err))
		return
	}
	slices.Sort(paths)

	var (
		changed []notes.Note
		removed []string
	)
	for _, p := range paths {
		if !d.isNoteFile(p) {
			continue
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			removed = append(removed, notes.IDFromPath(filepath.ToSlash(rel)))
			continue
		}
		n, err := notes.LoadFile(root, p)
		if err != nil {
			d.logger.Warn("Skipping unreadable note", logfields.Path(p), logfields.Error(err))
			continue
		}
		changed = append(changed, n)
	}
	if len(changed) == 0 && len(removed) == 0 {
		return
	}

	d.indexMu.Lock()
	defer d.indexMu.Unlock()
	sum, err := d.indexer.Update(ctx, changed)
	if err != nil {
		d.logger.Error("Incremental index failed", logfields.Error(err))
		return
	}
	if _, err := d.indexer.Remove(ctx, removed...); err != nil {
		d.logger.Error("Failed to remove deleted notes", logfields.Error(err))
		return
	}
	d.logger.Info("Notes updated",
		logfields.Notes(len(changed)),
		slog.Int("indexed", sum.Indexed),
		slog.Int("removed", len(removed)))
}

func (d *Daemon) isNoteFile(p string) bool {
	base := filepath.Base(p)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range d.cfg.Notes.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return len(d.cfg.Notes.Extensions) == 0
}
