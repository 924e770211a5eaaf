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

	"github.com/Simplici0/fabricalc/internal/logging"
	"github.com/Simplici0/fabricalc/internal/web"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the calculator web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, notice, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			srv, err := web.New(svc, logging.Default(), notice)
			if err != nil {
				return err
			}
			httpServer := srv.NewHTTPServer(":" + a.cfg.Port)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logging.Info("listening", logging.Fields{"addr": httpServer.Addr, "store": svc.Location()})
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logging.Info("shutting down")
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("port", "8080", "HTTP port")
	return cmd
}
