package transform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// Default candidate extensions when no glob filter is given.
var defaultExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
}

// Directories never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

// Discover returns the candidate files for a transform, sorted. When root
// is a regular file it is the only candidate. Otherwise the tree under
// root is walked, skipping dependency and build-output directories and
// anything matched by the root .gitignore. With an empty globPattern the
// default TypeScript-like extensions are used and declaration-only files
// (.d.ts) are excluded; a non-empty globPattern replaces that default and
// is matched against the slash-separated path relative to root.
func Discover(root, globPattern string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{absRoot}, nil
	}

	var matcher glob.Glob
	if globPattern != "" {
		matcher, err = glob.Compile(globPattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", globPattern, err)
		}
	}

	var gitIgnore *ignore.GitIgnore
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore")); err == nil {
		gitIgnore = gi
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != absRoot && (skipDirs[d.Name()] || (gitIgnore != nil && gitIgnore.MatchesPath(rel))) {
				return filepath.SkipDir
			}
			return nil
		}
		if gitIgnore != nil && gitIgnore.MatchesPath(rel) {
			return nil
		}

		if matcher != nil {
			if matcher.Match(rel) {
				files = append(files, path)
			}
			return nil
		}
		if defaultExtensions[filepath.Ext(path)] && !strings.HasSuffix(path, ".d.ts") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", absRoot, err)
	}

	sort.Strings(files)
	return files, nil
}
