package transform

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"codegraph/internal/pattern"
)

// defaultConcurrency bounds the parallel per-file workers. Files are
// independent and writes target disjoint paths, so no further coordination
// is needed.
const defaultConcurrency = 8

// FileChange records one substitution, positioned against the original
// (pre-rewrite) text.
type FileChange struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Result aggregates a transform run.
type Result struct {
	TotalMatches  int          `json:"totalMatches"`
	FilesModified []string     `json:"filesModified"`
	Changes       []FileChange `json:"changes"`
	DryRun        bool         `json:"dryRun"`
}

// Options controls candidate selection and persistence.
type Options struct {
	// Glob optionally replaces the default extension filter.
	Glob string
	// DryRun computes and reports changes without writing any file.
	DryRun bool
	// Concurrency bounds parallel file processing; zero means
	// defaultConcurrency.
	Concurrency int
}

// Run matches matchPattern in every candidate file under root and rewrites
// occurrences with rewritePattern (captures substituted). Unreadable files
// are skipped and excluded from FilesModified; the batch continues. DryRun
// reports the same changes and match count without persisting anything.
func Run(ctx context.Context, root, matchPattern, rewritePattern string, opts Options) (*Result, error) {
	matcher, err := pattern.CompileString(matchPattern)
	if err != nil {
		return nil, err
	}

	files, err := Discover(root, opts.Glob)
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	type fileResult struct {
		modified bool
		changes  []FileChange
		matches  int
	}
	perFile := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changes, rewritten, matches, err := rewriteFile(matcher, rewritePattern, file)
			if err != nil {
				slog.Warn("skipping unreadable file", "path", file, "error", err)
				return nil
			}
			if matches == 0 {
				return nil
			}
			if !opts.DryRun {
				if err := writeFile(file, rewritten); err != nil {
					slog.Warn("skipping unwritable file", "path", file, "error", err)
					return nil
				}
			}
			perFile[i] = fileResult{modified: true, changes: changes, matches: matches}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{DryRun: opts.DryRun, FilesModified: []string{}, Changes: []FileChange{}}
	for i, fr := range perFile {
		if !fr.modified {
			continue
		}
		result.TotalMatches += fr.matches
		result.FilesModified = append(result.FilesModified, files[i])
		result.Changes = append(result.Changes, fr.changes...)
	}
	return result, nil
}

// rewriteFile applies the matcher to one file's text and builds the
// rewritten content. Positions are computed against the original text.
func rewriteFile(matcher *pattern.Matcher, rewritePattern, file string) ([]FileChange, string, int, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, "", 0, err
	}
	text := string(data)

	matches := matcher.FindAll(text)
	if len(matches) == 0 {
		return nil, text, 0, nil
	}

	var sb strings.Builder
	changes := make([]FileChange, 0, len(matches))
	last := 0
	for _, m := range matches {
		after := pattern.Apply(rewritePattern, m.Captures)
		line, col := pattern.Position(text, m.Start)
		changes = append(changes, FileChange{
			File:   file,
			Line:   line,
			Column: col,
			Before: m.Text,
			After:  after,
		})
		sb.WriteString(text[last:m.Start])
		sb.WriteString(after)
		last = m.End
	}
	sb.WriteString(text[last:])

	return changes, sb.String(), len(matches), nil
}

func writeFile(file, content string) error {
	info, err := os.Stat(file)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(file, []byte(content), mode)
}
