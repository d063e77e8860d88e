package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"railfence/internal/logging"
	mcpserver "railfence/internal/mcp"
	"railfence/internal/metrics"
	"railfence/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveFlags struct {
	metricsAddr string
	ephemeral   bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing the encrypt, decrypt,
attack and history tools.

Attacks are recorded in the history database (--ephemeral keeps them in
memory instead). With --metrics-addr, Prometheus metrics are served on
/metrics at that address.

The server monitors for parent process death and exits when its client does.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	f.BoolVar(&serveFlags.ephemeral, "ephemeral", false, "Keep attack history in memory only")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := logging.New("mcp")

	engine, _, err := newEngine(cfg)
	if err != nil {
		return err
	}

	var history store.Store
	if serveFlags.ephemeral {
		history = store.NewMemStore()
	} else {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		history = s
	}
	defer history.Close()

	srv := mcpserver.NewServer(engine, history, cfg.Dictionary.Backend)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if serveFlags.metricsAddr != "" {
		stop := serveMetrics(ctx, serveFlags.metricsAddr)
		defer stop()
	}

	mcpserver.WatchParent(ctx, cancel)

	logger.Info("starting railfence MCP server over stdio (parent watchdog active)", "backend", cfg.Dictionary.Backend)
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// serveMetrics starts the /metrics endpoint and returns a shutdown func.
func serveMetrics(ctx context.Context, addr string) func() {
	logger := logging.New("metrics")
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	hs := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}
}
