package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/citydot/towstat/api"
)

// ServeCmd builds the `towstat serve` command: the read-only dashboard
// API over the stats tables.
func ServeCmd() *cobra.Command {
	var (
		configPath string
		dbPath     string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, st, _, err := setup(configPath, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			addr := cfg.Listen
			if listen != "" {
				addr = listen
			}

			handler := api.NewHandler(st, log)
			server := &http.Server{
				Addr:         addr,
				Handler:      api.NewRouter(handler),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", addr).Info("dashboard API listening")
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			case <-cmd.Context().Done():
			}

			log.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&listen, "listen", "", "bind address (overrides config)")

	return cmd
}
