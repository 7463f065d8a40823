package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/api"
	"github.com/AlexZinkM/evm-wallet/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Serves the wallet API on PORT with Swagger UI under /swagger/ and metrics under /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return withApp(ctx, func(a *app) error {
			svr := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           api.SetupRouter(a.svc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Log.Info("wallet server launched",
				zap.String("addr", svr.Addr),
				zap.String("network", a.svc.Networks().Active.ID))

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := svr.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
				defer cancel()
				return svr.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				logger.Log.Error("server exit", zap.Error(err))
				return err
			}
			logger.Log.Info("server stopped")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
