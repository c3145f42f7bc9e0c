package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jake-Purton/wasm-tt/ai"
	"github.com/Jake-Purton/wasm-tt/config"
	"github.com/Jake-Purton/wasm-tt/logging"
	"github.com/Jake-Purton/wasm-tt/server"
	"github.com/Jake-Purton/wasm-tt/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("init logger")
	}

	// 重みファイルがあればBotにAIを使わせる
	var net *ai.Network
	if cfg.WeightsPath != "" {
		net, err = ai.LoadNetwork(cfg.WeightsPath)
		if err != nil {
			log.WithError(err).Warn("AI disabled")
		}
	}

	srv := server.NewServer(session.NewStore(), log, cfg.Board, net)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(cfg.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.Addr).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("server stopped")
}
