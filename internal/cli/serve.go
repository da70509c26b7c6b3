package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/factguard/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fact-checking HTTP API",
	Long: `Serve exposes the fact-checking pipeline over HTTP:

  POST /api/check   {"text": "..."}  -> verdict with citations
  GET  /api/health                   -> liveness probe

The LLM provider client and its bounded connection pool are initialized
once at startup and shared by all requests; each request runs its own
pipeline instance.

Example:
  factguard serve
  factguard serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	analysis, searcher, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server.Addr, analysis, searcher)
	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)

	return srv.Run(ctx)
}
