package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streamsmart/server/internal/controller"
	"github.com/streamsmart/server/internal/repository/job"
	jobGorm "github.com/streamsmart/server/internal/repository/job/gormdb"
	roomRedis "github.com/streamsmart/server/internal/repository/room/redis"
	roomService "github.com/streamsmart/server/internal/service/room"
	"github.com/streamsmart/server/internal/service/summarizer"
	"github.com/streamsmart/server/internal/service/watch"
	"github.com/streamsmart/server/pkg/ctxlogger"
	"github.com/streamsmart/server/pkg/redisclient"
)

type AppConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	LogLevel        string `json:"log_level"`
	GracePeriodSec  int    `json:"grace_period_sec"`
	RedisHost       string `json:"redis_host"`
	RedisPort       int    `json:"redis_port"`
	RedisPassword   string `json:"-"`
	DBPath          string `json:"db_path"`
	AudioDir        string `json:"audio_dir"`
	OpenAIBaseURL   string `json:"openai_base_url"`
	OpenAIAPIKey    string `json:"-"`
	TranscribeModel string `json:"transcribe_model"`
	ChatModel       string `json:"chat_model"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.GracePeriodSec < 1 {
		return fmt.Errorf("grace period must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&job.Job{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	roomRepo := roomRedis.NewRepo(rc, 24*14*time.Hour)
	jobRepo := jobGorm.NewRepo(db)

	rooms := roomService.NewService(roomRepo)
	watcher := watch.NewService(roomRepo, logger, &watch.Config{
		GracePeriod: time.Duration(cfg.GracePeriodSec) * time.Second,
	})

	openAICfg := summarizer.OpenAIConfig{
		BaseURL:         cfg.OpenAIBaseURL,
		APIKey:          cfg.OpenAIAPIKey,
		TranscribeModel: cfg.TranscribeModel,
		ChatModel:       cfg.ChatModel,
	}
	jobs := summarizer.NewService(
		jobRepo,
		summarizer.NewYtdlpDownloader(cfg.AudioDir),
		summarizer.NewOpenAITranscriber(openAICfg),
		summarizer.NewOpenAIAnalyzer(openAICfg),
		logger,
	)

	controller := controller.NewController(rooms, jobs, watcher, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	g, gctx := errgroup.WithContext(serverCtx)

	g.Go(func() error {
		if err := jobs.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	return g.Wait()
}
