// Package manifest discovers module manifests (package.json) in a
// workspace and converts them into dependency-graph descriptors.
package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"

	"codegraph/internal/graph"
)

// Directories never descended into, regardless of .gitignore.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

// packageJSON is the subset of a manifest the graph builder needs.
type packageJSON struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// Scan walks root for package.json files and returns one descriptor per
// named manifest, sorted by relative path. Manifests that cannot be read
// or parsed are skipped with a warning; they never fail the scan.
func Scan(root string) ([]graph.ModuleDescriptor, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}

	var gitIgnore *ignore.GitIgnore
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore")); err == nil {
		gitIgnore = gi
	}

	var descriptors []graph.ModuleDescriptor
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			if path != absRoot && (skipDirs[d.Name()] || ignored(gitIgnore, rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != "package.json" || ignored(gitIgnore, rel) {
			return nil
		}

		pkg, readErr := readManifest(path)
		if readErr != nil {
			slog.Warn("skipping unreadable manifest", "path", path, "error", readErr)
			return nil
		}
		if pkg.Name == "" {
			return nil
		}

		dir := filepath.Dir(path)
		relDir, _ := filepath.Rel(absRoot, dir)
		descriptors = append(descriptors, graph.ModuleDescriptor{
			Name:             pkg.Name,
			Path:             dir,
			RelativePath:     filepath.ToSlash(relDir),
			Dependencies:     pkg.Dependencies,
			DevDependencies:  pkg.DevDependencies,
			PeerDependencies: pkg.PeerDependencies,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", absRoot, err)
	}

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].RelativePath < descriptors[j].RelativePath
	})
	return descriptors, nil
}

func readManifest(path string) (*packageJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pkg, nil
}

func ignored(gi *ignore.GitIgnore, rel string) bool {
	return gi != nil && gi.MatchesPath(filepath.ToSlash(rel))
}
