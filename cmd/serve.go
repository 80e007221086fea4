package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Kyusei-App/internal/handler"
	"Kyusei-App/internal/infrastructure/geocoding"
	"Kyusei-App/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP API サーバーを起動",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		overlays := usecase.NewOverlayUseCase(a.calendar, a.grid, a.jobTTL)
		defer overlays.Close()

		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := handler.NewRouter(handler.RouterDeps{
			Location: handler.NewLocationHandler(usecase.NewLocationUseCase(
				geocoding.NewMockGeocoder(nil),
				a.repos.Locations,
				a.repos.Markers,
				a.repos.FengShuiAnalysis,
			)),
			Kyusei:  handler.NewKyuseiHandler(usecase.NewKyuseiUseCase(a.calendar, a.repos.KyuseiAnalysis, a.repos.UserProfiles)),
			Overlay: handler.NewOverlayHandler(overlays),
			Health:  a.health,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("🛑 サーバーを停止します")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("⚠️ シャットダウンに失敗", zap.Error(err))
			}
		}()

		zap.L().Info("🚀 Kyusei-App server starting", zap.Int("port", port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
