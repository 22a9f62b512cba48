package transform

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"codegraph/internal/pattern"
)

// MatchReport is one located occurrence, positioned for reporting.
type MatchReport struct {
	File     string            `json:"file"`
	Line     int               `json:"line"`
	Column   int               `json:"column"`
	Text     string            `json:"text"`
	Captures map[string]string `json:"captures,omitempty"`
}

// Search locates every occurrence of matchPattern in the candidate files
// under root without rewriting anything. Unreadable files are skipped.
func Search(ctx context.Context, root, matchPattern string, opts Options) ([]MatchReport, error) {
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

	perFile := make([][]MatchReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				slog.Warn("skipping unreadable file", "path", file, "error", err)
				return nil
			}
			text := string(data)
			for _, m := range matcher.FindAll(text) {
				line, col := pattern.Position(text, m.Start)
				perFile[i] = append(perFile[i], MatchReport{
					File:     file,
					Line:     line,
					Column:   col,
					Text:     m.Text,
					Captures: m.Captures,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports := []MatchReport{}
	for _, fr := range perFile {
		reports = append(reports, fr...)
	}
	return reports, nil
}
