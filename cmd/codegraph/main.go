package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"codegraph/internal/history"
	"codegraph/internal/lsp"
	"codegraph/internal/server"
	"codegraph/util"
)

var (
	root      = flag.String("root", "", "Workspace root (defaults to the enclosing git repository)")
	noHistory = flag.Bool("no-history", false, "Disable the transform history log")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	version   = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "0.3.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("codegraph v%s\n", VERSION)
		os.Exit(0)
	}

	// stdout carries the MCP transport; all logs go to stderr.
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	workspace := *root
	if workspace == "" {
		var err error
		workspace, err = util.FindGitRoot()
		if err != nil {
			slog.Error("failed to determine workspace root", "error", err)
			os.Exit(1)
		}
	}
	workspace, err := filepath.Abs(workspace)
	if err != nil {
		slog.Error("failed to resolve workspace root", "path", *root, "error", err)
		os.Exit(1)
	}

	client := lsp.NewClient(lsp.DefaultRegistry(), workspace)
	defer client.Close()

	var store *history.Store
	if !*noHistory {
		dataDir, err := util.EnsureDataDir()
		if err != nil {
			slog.Warn("transform history disabled", "error", err)
		} else {
			store, err = history.Open(filepath.Join(dataDir, "history.db"))
			if err != nil {
				slog.Warn("transform history disabled", "error", err)
				store = nil
			} else {
				defer store.Close()
			}
		}
	}

	srv := server.New(server.Options{
		Root:    workspace,
		Calls:   client,
		Types:   client,
		History: store,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting codegraph", "version", VERSION, "root", workspace)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
