package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	classeshandler "github.com/courseloop/classroom-media/domains/classes/be/handler"
	classesservice "github.com/courseloop/classroom-media/domains/classes/be/service"
	diagnosticshandler "github.com/courseloop/classroom-media/domains/diagnostics/be/handler"
	diagnosticsservice "github.com/courseloop/classroom-media/domains/diagnostics/be/service"
	mediahandler "github.com/courseloop/classroom-media/domains/media/be/handler"
	mediaservice "github.com/courseloop/classroom-media/domains/media/be/service"
	platformfirebase "github.com/courseloop/classroom-media/platform/go/firebase"
	platformlogging "github.com/courseloop/classroom-media/platform/go/logging"
	"github.com/courseloop/classroom-media/platform/go/metrics"
	"github.com/courseloop/classroom-media/platform/go/muxvideo"
	"github.com/courseloop/classroom-media/platform/go/tenantdb"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`

	MuxTokenID     string `env:"MUX_TOKEN_ID"`
	MuxTokenSecret string `env:"MUX_TOKEN_SECRET"`

	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_ROLE_KEY"`

	UsersCollection string `env:"FIREBASE_USERS_COLLECTION" envDefault:"users"`
}

func main() {
	ctx := context.Background()

	// .env is for local development only; missing files are fine.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "media-api",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	_, firestoreClient, err := platformfirebase.InitFirestore(ctx)
	if err != nil {
		logger.Fatal("init firestore", zap.Error(err))
	}
	defer firestoreClient.Close() // nolint:errcheck

	vendorHTTP := &http.Client{Timeout: 30 * time.Second}

	muxClient, err := muxvideo.NewClient(muxvideo.Config{
		TokenID:     cfg.MuxTokenID,
		TokenSecret: cfg.MuxTokenSecret,
		HTTPClient:  vendorHTTP,
	})
	if err != nil {
		logger.Warn("mux client disabled", zap.Error(err))
	}

	var adminDB *tenantdb.Client
	if cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "" {
		adminDB = tenantdb.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, vendorHTTP)
	} else {
		logger.Warn("supabase admin client disabled: credentials not configured")
	}

	recordStore := tenantdb.NewFirestoreRecordStore(firestoreClient, cfg.UsersCollection)
	resolver := tenantdb.NewResolver(recordStore, vendorHTTP)

	var assetDeleter classesservice.AssetDeleter
	var muxAPI mediaservice.MuxAPI
	var muxProbe diagnosticsservice.MuxProbe
	if muxClient != nil {
		assetDeleter = muxClient
		muxAPI = muxClient
		muxProbe = muxClient
	}

	var diagnosticsDB diagnosticsservice.AdminDB
	if adminDB != nil {
		diagnosticsDB = adminDB
	}

	classesService := classesservice.New(classResolver{resolver: resolver}, assetDeleter)
	classesHTTPHandler := classeshandler.New(classesService, logger)

	mediaService := mediaservice.New(muxAPI)
	mediaHTTPHandler := mediahandler.New(mediaService, logger)

	diagnosticsService := diagnosticsservice.New(diagnosticsDB, muxProbe)
	diagnosticsHTTPHandler := diagnosticshandler.New(diagnosticsService, logger)

	apiMetrics := metrics.NewAPIMetrics()

	rootRouter := chi.NewRouter()
	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}),
	)
	rootRouter.Use(platformlogging.RequestLogger(logger))
	rootRouter.Use(apiMetrics.Middleware)

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Handle("/metrics", promhttp.Handler())

	apiRouter := chi.NewRouter()
	classesHTTPHandler.Register(apiRouter)
	mediaHTTPHandler.Register(apiRouter)
	diagnosticsHTTPHandler.Register(apiRouter)

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting media api", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// classResolver narrows the platform resolver to the interface the classes
// service depends on.
type classResolver struct {
	resolver *tenantdb.Resolver
}

func (c classResolver) Resolve(ctx context.Context, tenantKey string) (classesservice.TenantDB, error) {
	client, err := c.resolver.Resolve(ctx, tenantKey)
	if err != nil {
		return nil, err
	}
	return client, nil
}
