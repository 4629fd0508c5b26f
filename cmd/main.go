package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/openmsupply/temperature-sensor/internal/berlinger"
	"github.com/openmsupply/temperature-sensor/internal/handlers"
	"github.com/openmsupply/temperature-sensor/internal/logger"
	"github.com/openmsupply/temperature-sensor/internal/report"
	"github.com/openmsupply/temperature-sensor/internal/server"
	"github.com/openmsupply/temperature-sensor/internal/service"
)

const defaultScanTick = 30 * time.Second

// @title        temperature-sensor API
// @description  Reads Berlinger cold-chain USB data loggers, reconstructs breach intervals and serves per-sensor history.
// @BasePath     /
func main() {
	if err := loadConfig(); err != nil {
		// Config is optional; defaults cover local use.
		logger.Get(logger.InfoLevel).Infow("no config file found, using defaults", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	// wire dependencies
	reader := berlinger.NewReader(scanMounts(), log)
	dumps := report.New(viper.GetString("report.dir"), viper.GetBool("report.enabled"))
	services := service.NewService(reader, dumps, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// background mount rescan
	go services.Scanner.Run(ctx, scanTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// scanMounts returns the mount points to scan for report files.
func scanMounts() []string {
	if mounts := viper.GetStringSlice("scan.mounts"); len(mounts) > 0 {
		return mounts
	}
	return []string{"/media", "/run/media"}
}

func scanTick() time.Duration {
	if d := viper.GetDuration("scan.interval"); d > 0 {
		return d
	}
	return defaultScanTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks on termination signals, then stops the scanner and
// drains in-flight requests.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
