package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/yleoer/lyrics/pkg/api"
	"github.com/yleoer/lyrics/pkg/config"
	"github.com/yleoer/lyrics/pkg/database"
	"github.com/yleoer/lyrics/pkg/processor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve processed lyrics and on-demand parsing over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		svc, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer svc.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serveHTTP(ctx, cfg.HTTPAddr, svc)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// services 是 watch 与 serve 共用的依赖
type services struct {
	store     database.LyricStore
	processor *processor.LyricProcessor
}

func (s *services) close() {
	if err := s.store.Close(); err != nil {
		logger.Printf("ERROR: Failed to close database: %v", err)
	}
}

// openServices 初始化数据库、繁简转换器和处理器
func openServices(cfg *config.Config) (*services, error) {
	tc, err := newConverter(cfg.ConvertT2S)
	if err != nil {
		return nil, err
	}
	store, err := database.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}
	proc := processor.NewLyricProcessor(store, tc, processor.Options{
		ExportDir:         cfg.ExportDir,
		Tolerance:         cfg.ToleranceMs(),
		DefaultDurationMs: cfg.DefaultTrackDuration.Milliseconds(),
		Workers:           cfg.Workers,
	}, logger)
	return &services{store: store, processor: proc}, nil
}

// serveHTTP 启动 HTTP 服务，ctx 结束时优雅关闭
func serveHTTP(ctx context.Context, addr string, svc *services) error {
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(svc.store, svc.processor, logger)
	srv := &http.Server{Addr: addr, Handler: router.Engine()}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("HTTP server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Println("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
