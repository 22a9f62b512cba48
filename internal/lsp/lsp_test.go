package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := Request{JSONRPC: "2.0", ID: 7, Method: "initialize", Params: InitializeParams{RootURI: "file:///ws"}}
	if err := WriteMessage(&buf, req); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "Content-Length: ") {
		t.Fatalf("missing framing header: %q", buf.String())
	}

	body, err := ReadMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var decoded Request
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Method != "initialize" || decoded.ID != 7 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestReadMessageMissingLength(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\r\n{}"))
	if _, err := ReadMessage(r); err == nil {
		t.Error("expected error for missing Content-Length")
	}
}

func TestRegistryForExtension(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		ext      string
		language string
		ok       bool
	}{
		{".ts", "typescript", true},
		{".tsx", "typescript", true},
		{".js", "javascript", true},
		{".go", "go", true},
		{".py", "python", true},
		{".rb", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			cfg, ok := r.ForExtension(tt.ext)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && cfg.Language != tt.language {
				t.Errorf("language = %s, want %s", cfg.Language, tt.language)
			}
		})
	}
}

func TestIsExternal(t *testing.T) {
	root := filepath.Join("/", "ws")
	c := NewClient(DefaultRegistry(), root)

	tests := []struct {
		path     string
		external bool
	}{
		{filepath.Join(root, "src", "a.ts"), false},
		{filepath.Join(root, "node_modules", "dep", "index.js"), true},
		{filepath.Join("/", "elsewhere", "b.ts"), true},
	}
	for _, tt := range tests {
		if got := c.isExternal(tt.path); got != tt.external {
			t.Errorf("isExternal(%s) = %v, want %v", tt.path, got, tt.external)
		}
	}
}

func TestSymbolKindName(t *testing.T) {
	if got := SymbolKindName(SymbolKindInterface); got != "interface" {
		t.Errorf("SymbolKindName(interface) = %s", got)
	}
	if got := SymbolKindName(99); got != "symbol" {
		t.Errorf("unknown kind = %s, want symbol", got)
	}
}
