package lsp

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
var (
	// ErrServerUnavailable indicates the language server process could
	// not be started or stopped responding.
	ErrServerUnavailable = errors.New("language server unavailable")

	// ErrUnsupportedFile indicates no server configuration owns the
	// file's extension.
	ErrUnsupportedFile = errors.New("no language server for file type")
)

// Error implements the error interface for server-reported failures.
func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("lsp error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("lsp error %d: %s", e.Code, e.Message)
}
