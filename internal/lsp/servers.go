package lsp

import (
	"os"
	"strings"
)

// ServerConfig describes how to launch a language server and which file
// extensions it owns.
type ServerConfig struct {
	Language   string
	LanguageID string // LSP languageId sent on didOpen
	Command    []string
	Extensions []string
}

// Registry maps file extensions to language server configurations. It is
// constructed explicitly and injected where needed; there is no
// process-wide registry.
type Registry struct {
	byExt map[string]ServerConfig
}

// NewRegistry builds a registry from the given configurations. Later
// configurations win on extension conflicts.
func NewRegistry(configs ...ServerConfig) *Registry {
	r := &Registry{byExt: make(map[string]ServerConfig)}
	for _, cfg := range configs {
		for _, ext := range cfg.Extensions {
			r.byExt[ext] = cfg
		}
	}
	return r
}

// DefaultRegistry returns the built-in server configurations. The
// CODEGRAPH_LSP_CMD environment variable overrides the TypeScript server
// command (space-separated argv).
func DefaultRegistry() *Registry {
	tsCommand := []string{"typescript-language-server", "--stdio"}
	if override := os.Getenv("CODEGRAPH_LSP_CMD"); override != "" {
		tsCommand = strings.Fields(override)
	}

	return NewRegistry(
		ServerConfig{
			Language:   "typescript",
			LanguageID: "typescript",
			Command:    tsCommand,
			Extensions: []string{".ts", ".tsx", ".mts", ".cts"},
		},
		ServerConfig{
			Language:   "javascript",
			LanguageID: "javascript",
			Command:    tsCommand,
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		},
		ServerConfig{
			Language:   "go",
			LanguageID: "go",
			Command:    []string{"gopls", "serve"},
			Extensions: []string{".go"},
		},
		ServerConfig{
			Language:   "python",
			LanguageID: "python",
			Command:    []string{"pyright-langserver", "--stdio"},
			Extensions: []string{".py"},
		},
	)
}

// ForExtension returns the configuration owning the given extension.
func (r *Registry) ForExtension(ext string) (ServerConfig, bool) {
	cfg, ok := r.byExt[ext]
	return cfg, ok
}
