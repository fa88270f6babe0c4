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
	"github.com/joho/godotenv"

	"github.com/yoockh/yoodiarize/config"
	"github.com/yoockh/yoodiarize/internal/api/handlers"
	"github.com/yoockh/yoodiarize/internal/api/routes"
	"github.com/yoockh/yoodiarize/internal/audio"
	"github.com/yoockh/yoodiarize/internal/fetcher"
	"github.com/yoockh/yoodiarize/internal/logger"
	"github.com/yoockh/yoodiarize/internal/metrics"
	"github.com/yoockh/yoodiarize/internal/providers/diarization"
	"github.com/yoockh/yoodiarize/internal/providers/diarization/pyannote"
	"github.com/yoockh/yoodiarize/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// logger reads LOG_LEVEL from env, fine to build it even here
		logger.New().Fatalf("config error: %v", err)
	}

	log := logger.New()
	base := logger.WithService(log, "yoodiarize")

	// Load the diarization capability once, before accepting traffic. A
	// broken credential or unreachable runtime is fatal at startup, not a
	// per-request surprise.
	backend := pyannote.New(pyannote.Config{
		BaseURL: cfg.DiarizationURL,
		Token:   cfg.HuggingFaceToken,
		Timeout: cfg.DiarizationWait,
	})

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := backend.Load(loadCtx); err != nil {
		cancelLoad()
		base.Fatalf("failed to load the diarization pipeline: %v", err)
	}
	cancelLoad()
	base.WithField("engine", backend.Name()).
		WithField("device", backend.Device()).
		Info("diarization pipeline loaded")

	engine := diarization.NewEngine(backend, log)
	defer engine.Close()

	m := metrics.New()

	svc := services.NewAnalysisService(
		fetcher.New(cfg.FetchTimeout, cfg.MaxDownloadBytes(), log),
		audio.NewValidator(audio.NewMP3Decoder(), cfg.MinAudioSeconds),
		engine,
		cfg.MaxAudioSeconds,
		log,
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		Analyze:   handlers.NewAnalyzeHandler(svc, m),
		Health:    handlers.NewHealthHandler(engine),
		Metrics:   m,
		Logger:    log,
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		base.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			base.Fatalf("server error: %v", err)
		}
	}()

	// In-flight analyses run to completion; the shutdown window has to be
	// generous enough for an inference that already started.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	base.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		base.Errorf("forced shutdown: %v", err)
	}
}
