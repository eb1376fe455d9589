// Package notes reads Subtext notes from a directory or a git revision.
//
// A note file may start with a YAML frontmatter block delimited by `---`
// lines. The frontmatter is split off before parsing and, together with the
// body, feeds the note's mdfp fingerprint.
package notes
