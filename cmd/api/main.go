package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voice-webhooks/internal/assistant"
	"voice-webhooks/internal/config"
	"voice-webhooks/internal/dispatch"
	"voice-webhooks/internal/httpapi"
	"voice-webhooks/internal/notify"
	"voice-webhooks/pkg/logger"
	"voice-webhooks/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	dir, err := cfg.LinkDirectory()
	if err != nil {
		log.Error("link table init failed", "err", err)
		os.Exit(1)
	}

	sms, err := notify.NewSMSSender(rootCtx, cfg)
	if err != nil {
		log.Error("sms provider init failed", "err", err)
		os.Exit(1)
	}

	email, err := notify.NewEmailSender(rootCtx, cfg)
	if err != nil {
		log.Error("email provider init failed", "err", err)
		os.Exit(1)
	}

	var guard notify.SendGuard
	if cfg.Redis.Addr != "" {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.Redis.Addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		guard = notify.NewRedisGuard(rdb, cfg.Redis.GuardTTL)
	}

	d := dispatch.New(dispatch.Options{
		Business:  cfg.Business.Name,
		Links:     dir,
		Assistant: assistant.Build(cfg.AssistantSettings(), dir.Types()),
		ToolName:  cfg.Assistant.ToolName,
		SMS:       sms,
		Email:     email,
		Guard:     guard,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	registerRoutes(r, httpapi.Handlers{Dispatcher: d})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening",
			"addr", srv.Addr,
			"env", cfg.App.Env,
			"sms_provider", sms.Name(),
			"email_provider", cfg.Email.Provider,
			"send_guard", guard != nil,
			"link_types", dir.Types(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
