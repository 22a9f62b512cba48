package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"codegraph/internal/trace"
	"codegraph/util"
)

// Client adapts language server call-hierarchy and type-hierarchy
// capabilities to the tracer collaborator interfaces. One server process
// is started lazily per language and reused across requests.
//
// All requests are serialized: the protocol use here is strictly
// synchronous, matching the single-threaded core.
type Client struct {
	registry *Registry
	root     string

	mu    sync.Mutex
	conns map[string]*conn
}

// conn is one running language server.
type conn struct {
	cfg    ServerConfig
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Reader
	nextID int
	opened map[string]bool
}

// NewClient creates a client for the workspace rooted at root. The
// registry decides which server owns which file extension.
func NewClient(registry *Registry, root string) *Client {
	return &Client{
		registry: registry,
		root:     root,
		conns:    make(map[string]*conn),
	}
}

// Close shuts down every running server.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for lang, cn := range c.conns {
		cn.shutdown()
		delete(c.conns, lang)
	}
}

// connFor returns the running server for the file's language, starting it
// on first use.
func (c *Client) connFor(file string) (*conn, error) {
	cfg, ok := c.registry.ForExtension(filepath.Ext(file))
	if !ok {
		return nil, fmt.Errorf("%s: %w", file, ErrUnsupportedFile)
	}
	if cn, ok := c.conns[cfg.Language]; ok {
		return cn, nil
	}

	cn, err := dial(cfg, c.root)
	if err != nil {
		return nil, fmt.Errorf("starting %s server: %w: %v", cfg.Language, ErrServerUnavailable, err)
	}
	c.conns[cfg.Language] = cn
	return cn, nil
}

func dial(cfg ServerConfig, root string) (*conn, error) {
	cmd := exec.Command(cfg.Command[0], cfg.Command[1:]...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	cn := &conn{
		cfg:    cfg,
		cmd:    cmd,
		stdin:  stdin,
		reader: bufio.NewReader(stdout),
		opened: make(map[string]bool),
	}

	var result InitializeResult
	params := InitializeParams{
		ProcessID: os.Getpid(),
		RootURI:   util.PathToURI(root),
	}
	if err := cn.call("initialize", params, &result); err != nil {
		cn.shutdown()
		return nil, err
	}
	if err := WriteMessage(cn.stdin, Request{JSONRPC: "2.0", Method: "initialized", Params: struct{}{}}); err != nil {
		cn.shutdown()
		return nil, err
	}

	return cn, nil
}

// call issues one request and blocks for its response. Notifications are
// skipped; reverse requests from the server get an empty reply so servers
// that probe for configuration keep going.
func (cn *conn) call(method string, params, result interface{}) error {
	cn.nextID++
	id := cn.nextID
	if err := WriteMessage(cn.stdin, Request{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	for {
		body, err := ReadMessage(cn.reader)
		if err != nil {
			return fmt.Errorf("%s: %w: %v", method, ErrServerUnavailable, err)
		}

		var msg Response
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("%s: invalid response: %w", method, err)
		}

		if msg.Method != "" {
			if msg.ID != nil {
				// Reverse request from the server.
				reply := Response{JSONRPC: "2.0", ID: msg.ID, Result: json.RawMessage("null")}
				if err := WriteMessage(cn.stdin, reply); err != nil {
					return fmt.Errorf("%s: %w", method, err)
				}
			}
			continue
		}
		if msg.ID == nil || *msg.ID != id {
			continue
		}

		if msg.Error != nil {
			return fmt.Errorf("%s: %w", method, msg.Error)
		}
		if result != nil && len(msg.Result) > 0 && string(msg.Result) != "null" {
			if err := json.Unmarshal(msg.Result, result); err != nil {
				return fmt.Errorf("%s: decoding result: %w", method, err)
			}
		}
		return nil
	}
}

func (cn *conn) ensureOpen(path string) error {
	if cn.opened[path] {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	params := DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{
			URI:        util.PathToURI(path),
			LanguageID: cn.cfg.LanguageID,
			Version:    1,
			Text:       string(data),
		},
	}
	if err := WriteMessage(cn.stdin, Request{JSONRPC: "2.0", Method: "textDocument/didOpen", Params: params}); err != nil {
		return err
	}
	cn.opened[path] = true
	return nil
}

func (cn *conn) shutdown() {
	_ = cn.call("shutdown", nil, nil)
	_ = WriteMessage(cn.stdin, Request{JSONRPC: "2.0", Method: "exit"})
	_ = cn.stdin.Close()
	if err := cn.cmd.Wait(); err != nil {
		slog.Debug("language server exit", "language", cn.cfg.Language, "error", err)
	}
}

// Collaborator interface implementations. trace positions are 1-based;
// the wire protocol is 0-based.

var _ trace.CallLister = (*Client)(nil)
var _ trace.TypeLister = (*Client)(nil)

// ResolveCallable resolves the callable declared at pos via
// textDocument/prepareCallHierarchy.
func (c *Client) ResolveCallable(ctx context.Context, pos trace.Position) (trace.CallTarget, error) {
	item, err := c.prepareCallItem(pos)
	if err != nil {
		return trace.CallTarget{}, err
	}
	return c.callTarget(*item), nil
}

// OutgoingCalls lists one-step call targets via
// callHierarchy/outgoingCalls.
func (c *Client) OutgoingCalls(ctx context.Context, pos trace.Position) ([]trace.CallTarget, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.prepareCallItemLocked(pos)
	if err != nil {
		return nil, err
	}

	cn, err := c.connFor(pos.File)
	if err != nil {
		return nil, err
	}
	var calls []CallHierarchyOutgoingCall
	if err := cn.call("callHierarchy/outgoingCalls", CallHierarchyOutgoingCallsParams{Item: *item}, &calls); err != nil {
		return nil, err
	}

	targets := make([]trace.CallTarget, 0, len(calls))
	for _, call := range calls {
		targets = append(targets, c.callTarget(call.To))
	}
	return targets, nil
}

// ResolveType resolves the type declared at pos via
// textDocument/prepareTypeHierarchy.
func (c *Client) ResolveType(ctx context.Context, pos trace.Position) (trace.TypeTarget, error) {
	item, err := c.prepareTypeItem(pos)
	if err != nil {
		return trace.TypeTarget{}, err
	}
	return c.typeTarget(*item), nil
}

// Supertypes lists direct ancestors via typeHierarchy/supertypes.
func (c *Client) Supertypes(ctx context.Context, pos trace.Position) ([]trace.TypeTarget, error) {
	return c.typeNeighbors(pos, "typeHierarchy/supertypes", func(item TypeHierarchyItem) interface{} {
		return TypeHierarchySupertypesParams{Item: item}
	})
}

// Subtypes lists direct descendants via typeHierarchy/subtypes.
func (c *Client) Subtypes(ctx context.Context, pos trace.Position) ([]trace.TypeTarget, error) {
	return c.typeNeighbors(pos, "typeHierarchy/subtypes", func(item TypeHierarchyItem) interface{} {
		return TypeHierarchySubtypesParams{Item: item}
	})
}

func (c *Client) typeNeighbors(pos trace.Position, method string, params func(TypeHierarchyItem) interface{}) ([]trace.TypeTarget, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := c.prepareTypeItemLocked(pos)
	if err != nil {
		return nil, err
	}

	cn, err := c.connFor(pos.File)
	if err != nil {
		return nil, err
	}
	var items []TypeHierarchyItem
	if err := cn.call(method, params(*item), &items); err != nil {
		return nil, err
	}

	targets := make([]trace.TypeTarget, 0, len(items))
	for _, it := range items {
		targets = append(targets, c.typeTarget(it))
	}
	return targets, nil
}

func (c *Client) prepareCallItem(pos trace.Position) (*CallHierarchyItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepareCallItemLocked(pos)
}

func (c *Client) prepareCallItemLocked(pos trace.Position) (*CallHierarchyItem, error) {
	cn, err := c.connFor(pos.File)
	if err != nil {
		return nil, err
	}
	if err := cn.ensureOpen(pos.File); err != nil {
		return nil, err
	}

	params := CallHierarchyPrepareParams{
		TextDocument: TextDocumentIdentifier{URI: util.PathToURI(pos.File)},
		Position:     Position{Line: pos.Line - 1, Character: pos.Column - 1},
	}
	var items []CallHierarchyItem
	if err := cn.call("textDocument/prepareCallHierarchy", params, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, trace.ErrNoSymbolAtPosition
	}
	return &items[0], nil
}

func (c *Client) prepareTypeItem(pos trace.Position) (*TypeHierarchyItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepareTypeItemLocked(pos)
}

func (c *Client) prepareTypeItemLocked(pos trace.Position) (*TypeHierarchyItem, error) {
	cn, err := c.connFor(pos.File)
	if err != nil {
		return nil, err
	}
	if err := cn.ensureOpen(pos.File); err != nil {
		return nil, err
	}

	params := TypeHierarchyPrepareParams{
		TextDocument: TextDocumentIdentifier{URI: util.PathToURI(pos.File)},
		Position:     Position{Line: pos.Line - 1, Character: pos.Column - 1},
	}
	var items []TypeHierarchyItem
	if err := cn.call("textDocument/prepareTypeHierarchy", params, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, trace.ErrNoSymbolAtPosition
	}
	return &items[0], nil
}

func (c *Client) callTarget(item CallHierarchyItem) trace.CallTarget {
	path := util.URIToPath(item.URI)
	return trace.CallTarget{
		Position: trace.Position{
			File:   path,
			Line:   item.SelectionRange.Start.Line + 1,
			Column: item.SelectionRange.Start.Character + 1,
		},
		Name:       item.Name,
		IsExternal: c.isExternal(path),
	}
}

func (c *Client) typeTarget(item TypeHierarchyItem) trace.TypeTarget {
	path := util.URIToPath(item.URI)
	return trace.TypeTarget{
		Position: trace.Position{
			File:   path,
			Line:   item.SelectionRange.Start.Line + 1,
			Column: item.SelectionRange.Start.Character + 1,
		},
		Name:       item.Name,
		Kind:       SymbolKindName(item.Kind),
		IsExternal: c.isExternal(path),
	}
}

// isExternal reports whether a path falls outside the project boundary:
// outside the workspace root, or under an installed dependency tree.
func (c *Client) isExternal(path string) bool {
	if strings.Contains(path, string(filepath.Separator)+"node_modules"+string(filepath.Separator)) {
		return true
	}
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
