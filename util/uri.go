package util

import (
	"path/filepath"
	"strings"
)

// PathToURI converts a filesystem path to a file:// URI as LSP servers
// expect it.
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// URIToPath converts a file:// URI back to a filesystem path. Non-file
// URIs are returned unchanged.
func URIToPath(uri string) string {
	if rest, ok := strings.CutPrefix(uri, "file://"); ok {
		return filepath.FromSlash(rest)
	}
	return uri
}
