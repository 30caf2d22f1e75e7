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

	"autodialer-platform/internal/blog"
	"autodialer-platform/internal/calls"
	"autodialer-platform/internal/config"
	"autodialer-platform/internal/content"
	"autodialer-platform/internal/httpapi"
	"autodialer-platform/internal/phones"
	"autodialer-platform/internal/reporting"
	"autodialer-platform/internal/statscache"
	"autodialer-platform/internal/store"
	"autodialer-platform/internal/telephony"
	"autodialer-platform/pkg/logger"
	"autodialer-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

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

	phoneCol, err := store.NewCollection[phones.PhoneNumber](cfg.App.DataDir, "phone_numbers")
	if err != nil {
		log.Error("store init failed", "err", err)
		os.Exit(1)
	}
	callCol, err := store.NewCollection[calls.Entry](cfg.App.DataDir, "call_logs")
	if err != nil {
		log.Error("store init failed", "err", err)
		os.Exit(1)
	}
	postCol, err := store.NewCollection[blog.Post](cfg.App.DataDir, "blog_posts")
	if err != nil {
		log.Error("store init failed", "err", err)
		os.Exit(1)
	}

	var provider telephony.Provider = telephony.Disabled{}
	if cfg.TwilioEnabled() {
		provider = telephony.NewTwilioProvider(telephony.TwilioConfig{
			AccountSID:        cfg.Twilio.AccountSID,
			AuthToken:         cfg.Twilio.AuthToken,
			FromNumber:        cfg.Twilio.FromNumber,
			VoiceURL:          cfg.VoiceURL(),
			StatusCallbackURL: cfg.StatusCallbackURL(),
		})
	} else {
		log.Warn("twilio credentials missing, dialing disabled")
	}

	var generator content.Generator = content.Disabled{}
	if cfg.GeminiEnabled() {
		g, err := content.NewGeminiGenerator(rootCtx, cfg.Gemini.APIKey, cfg.Gemini.Models)
		if err != nil {
			log.Error("gemini init failed", "err", err)
			os.Exit(1)
		}
		generator = g
	} else {
		log.Warn("gemini api key missing, article generation disabled")
	}

	// Redis is optional: it adds a stats cache and a cross-process bulk lock.
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", "err", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	phoneSvc := phones.NewService(phoneCol)
	callSvc := calls.NewService(callCol)
	blogSvc := blog.NewService(postCol, generator)
	reportSvc := reporting.NewService(reporting.StoreRepo{Phones: phoneSvc, Calls: callSvc})

	h := &httpapi.Handlers{
		Phones:    phoneSvc,
		Calls:     callSvc,
		Blog:      blogSvc,
		Reports:   reportSvc,
		Provider:  provider,
		Generator: generator,
		Cache:     statscache.New(rdb, cfg.Redis.StatsTTL),
		Redis:     rdb,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env,
			"twilio", provider.Configured(), "gemini", generator.Configured(), "redis", rdb != nil)
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
