package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"student-app/internal/domain"
	transport "student-app/internal/transport/http"
)

// NewServeCmd builds the command that runs the websocket bridge for the UI.
func NewServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Sync the configured module and serve the UI bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
}

func runServer(ctx context.Context, opts *rootOptions) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.cfg.Postgres.URL != "" {
		if err := migrateContentDB(ctx, rt.cfg.Postgres.URL, rt.log); err != nil {
			return err
		}
	}

	// Foreground sync at startup; the UI triggers later ones over the bridge.
	if moduleID := domain.ID(rt.cfg.Sync.ModuleID); moduleID != 0 {
		if _, err := rt.service.SyncModule(ctx, moduleID); err != nil {
			rt.log.Error().Err(err).Stringer("module_id", moduleID).Msg("startup sync failed")
		}
	}

	port := rt.cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	wsHandler := transport.NewWSHandler(rt.service, rt.log)
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		rt.log.Info().Str("port", port).Msg("starting learning bridge")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.log.Error().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		rt.log.Info().Msg("shutting down server")
	case <-ctx.Done():
		rt.log.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
