package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/circle-app/circle-server/internal/config"
	"github.com/circle-app/circle-server/internal/infra/database"
	"github.com/circle-app/circle-server/internal/infra/limiter"
	"github.com/circle-app/circle-server/internal/infra/repository"
	"github.com/circle-app/circle-server/internal/infra/storage"
	"github.com/circle-app/circle-server/internal/infra/tracing"
	"github.com/circle-app/circle-server/internal/present/rest"
	authmiddleware "github.com/circle-app/circle-server/internal/present/rest/middleware"
	"github.com/circle-app/circle-server/internal/service"
	"github.com/circle-app/circle-server/internal/usecase"
	"github.com/circle-app/circle-server/jwt"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	setupLogger(conf.Server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Trace.Enable {
		shutdown, err := tracing.Setup(ctx, "circle-server", conf.Trace.Endpoint)
		if err != nil {
			panic(err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	db, err := database.NewDatabase(conf.Database.Driver, conf.Database.DSN)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.Migrate(db)
	if err != nil {
		panic("failed to migrate database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	defer sqlDB.Close()

	rdb := database.NewRedis(conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
	mc := database.NewMemcached(conf.Memcached.Addr)

	userRepo := repository.NewUserRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)

	codec, err := jwt.NewCodec(conf.Auth.TokenSecret, conf.Auth.TokenTTL)
	if err != nil {
		panic(err)
	}
	authService := service.NewAuthService(codec, userRepo)

	hub := service.NewHub()
	defer hub.Close()
	signalService := service.NewSignalService(hub, rdb)
	go signalService.Run(ctx)

	var loginLimiter usecase.Limiter
	if mc != nil {
		loginLimiter = limiter.NewMemcache(mc, conf.Auth.LoginMaxFailures, conf.Auth.LoginWindow)
	} else {
		loginLimiter = limiter.NewMemory(conf.Auth.LoginMaxFailures, conf.Auth.LoginWindow)
	}

	var blobs usecase.BlobStore
	var localDir string
	switch conf.Storage.Driver {
	case "s3":
		blobs, err = storage.NewS3(ctx, storage.S3Options{
			Bucket:        conf.Storage.S3.Bucket,
			Region:        conf.Storage.S3.Region,
			Endpoint:      conf.Storage.S3.Endpoint,
			AccessKey:     conf.Storage.S3.AccessKey,
			SecretKey:     conf.Storage.S3.SecretKey,
			PublicBaseURL: conf.Storage.S3.PublicBaseURL,
		})
	default:
		var local *storage.Local
		local, err = storage.NewLocal(conf.Storage.LocalDir, conf.Storage.PublicPrefix)
		if err == nil {
			blobs = local
			localDir = local.Dir()
		}
	}
	if err != nil {
		panic(err)
	}

	accountUsecase := usecase.NewAccountUsecase(userRepo, threadRepo, authService, loginLimiter, blobs)
	threadUsecase := usecase.NewThreadUsecase(threadRepo, replyRepo, userRepo, blobs, signalService)
	likeUsecase := usecase.NewLikeUsecase(likeRepo, threadRepo)
	followUsecase := usecase.NewFollowUsecase(followRepo, userRepo, conf.Social.SelfFollow())
	searchUsecase := usecase.NewSearchUsecase(userRepo, followRepo, conf.Social.SearchLimit, conf.Social.SuggestedUsers)

	handler := rest.NewHandler(
		rest.Options{
			Production:     conf.Server.Production(),
			CredentialTTL:  codec.TTL(),
			MaxUploadBytes: conf.Storage.MaxUploadBytes,
		},
		authmiddleware.NewAuthMiddleware(authService),
		accountUsecase,
		threadUsecase,
		likeUsecase,
		followUsecase,
		searchUsecase,
		signalService,
		sqlDB,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("module", "http"),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			slog.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.Server.AllowOrigins,
		AllowCredentials: true,
	}))
	if conf.Trace.Enable {
		e.Use(otelecho.Middleware("circle-server"))
	}
	e.Use(middleware.BodyLimit(bodyLimit(conf.Storage.MaxUploadBytes)))

	if localDir != "" {
		e.Static(conf.Storage.PublicPrefix, localDir)
	}

	handler.RegisterRoutes(e)

	go func() {
		slog.Info("server starting", slog.String("listen", conf.Server.Listen))
		if err := e.Start(conf.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down", slog.String("error", err.Error()))
	}
}

func setupLogger(server config.Server) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(server.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if server.Production() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// bodyLimit leaves room for two uploads plus form fields.
func bodyLimit(maxUpload int64) string {
	return strconv.FormatInt(2*maxUpload+(1<<20), 10)
}
