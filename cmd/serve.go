package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/techtree/internal/audit"
	"github.com/ziadkadry99/techtree/internal/overlay"
	"github.com/ziadkadry99/techtree/internal/server"
	"github.com/ziadkadry99/techtree/internal/session"
	"github.com/ziadkadry99/techtree/internal/viewer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the diagram backend (REST + websocket)",
	Long: `Starts the HTTP server that drives an interactive tech-tree diagram:
node/path lookups, help composition, popup placement, civilization
availability, and per-client sessions with a websocket event channel.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured port")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow CORS requests from any origin")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if all, _ := cmd.Flags().GetBool("allow-all-origins"); all {
		cfg.Server.AllowAllOrigins = true
	}

	eng, database, err := loadEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	opts := []viewer.Option{
		viewer.WithDefaultCiv(cfg.DefaultCiv),
		viewer.WithViewport(overlay.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}),
	}
	if cfg.Search.Enabled {
		idx, err := openSearchIndex(ctx, cfg, eng, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: search disabled: %v\n", err)
		} else {
			opts = append(opts, viewer.WithSearch(idx))
		}
	}

	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		AllowAll: cfg.Server.AllowAllOrigins,
	}, database, eng)

	v := viewer.New(eng, session.NewManager(eng, database), opts...)
	v.RegisterRoutes(srv.Router(), srv.Streams())

	imports := audit.NewStore(database)
	audit.RegisterRoutes(srv.Router(), imports)

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		srv.Shutdown(context.Background())
	}()

	fmt.Fprintf(os.Stderr, "techtree server %s starting on port %d\n", Version, cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.Database)
	fmt.Fprintf(os.Stderr, "  Nodes: %d, civilizations: %d\n", len(eng.Catalogue.Layout.Nodes), len(eng.Civs.Civs()))
	if last, err := imports.Latest(ctx); err == nil {
		fmt.Fprintf(os.Stderr, "  Snapshot: %s (%s)\n", last.Timestamp.Local().Format("2006-01-02 15:04"), last.DataDir)
	} else {
		fmt.Fprintf(os.Stderr, "  Snapshot: none, serving %s directly\n", cfg.DataDir)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
