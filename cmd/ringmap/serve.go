package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/matsen/ringmap/internal/server"
	"github.com/matsen/ringmap/internal/taxonomy"
)

var (
	serveAddr  string
	serveWatch bool
	serveTitle string
	serveSize  sizeFlags
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the dataset when its file changes")
	serveCmd.Flags().StringVar(&serveTitle, "title", "", "Page title")
	serveSize.register(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [dataset]",
	Short: "Serve the interactive diagram",
	Long: `Serve the interactive diagram over HTTP.

Routes:
  GET    /                        interactive page
  GET    /diagram.svg             static SVG
  GET    /api/diagram             layout JSON
  POST   /api/sessions            start a session, optionally {"select": id}
  POST   /api/sessions/:id/events apply a pointer event, returns the state
  GET    /api/sessions/:id        current session state
  GET    /api/sessions/:id/svg    SVG with the session's highlights
  DELETE /api/sessions/:id        end a session
  GET    /metrics                 Prometheus metrics
  GET    /healthz                 liveness`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	path, err := datasetSource(args, cfg, useDemo)
	if err != nil {
		exitWithError(ExitConfigError, "%v: pass a path or --demo", err)
	}
	if serveWatch && path == "" {
		exitWithError(ExitConfigError, "--watch needs a dataset file")
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	w, h := serveSize.resolve(cfg)
	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	load := func() (*taxonomy.Dataset, error) { return loadSource(path) }
	srv, err := server.New(load, server.Options{
		Width:      w,
		Height:     h,
		EventRate:  cfg.EventRate,
		EventBurst: cfg.EventBurst,
		SessionTTL: cfg.SessionTTL,
		Title:      serveTitle,
		Logger:     slog.Default(),
	})
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watch := ""
	if serveWatch {
		watch = path
	}
	return srv.Run(ctx, addr, watch)
}
