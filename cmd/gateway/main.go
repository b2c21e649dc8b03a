package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/quizforge/quizforge/internal/access"
	api "github.com/quizforge/quizforge/internal/api/http"
	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/db"
	"github.com/quizforge/quizforge/internal/diagnostic"
	"github.com/quizforge/quizforge/internal/purchase"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/resource"
	"github.com/quizforge/quizforge/internal/seed"
	"github.com/quizforge/quizforge/internal/storage"
	"github.com/quizforge/quizforge/internal/telemetry"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := telemetry.Init(telemetry.Config{
		Level: cfg.LogLevel,
		JSON:  cfg.LogJSON,
		File:  cfg.LogFile,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	defer dbh.Close()

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.BlobBasePath).Msg("blob store init failed")
	}
	signKey := cfg.FileSignKey
	if signKey == "" {
		signKey = cfg.SessionSecret
	}
	signer := storage.NewURLSigner(cfg.PublicURL, signKey, cfg.FileURLTTL)

	accessStore := access.NewSQLStore(dbh)
	accessSvc := access.NewService(accessStore)
	authSvc := auth.NewAuthService(cfg.SessionSecret)

	quizStore := quiz.NewSQLStore(dbh)
	quizSvc := quiz.NewService(quizStore, accessStore)

	diagStore := diagnostic.NewSQLStore(dbh)
	diagSvc := diagnostic.NewService(diagStore, accessStore)

	resStore := resource.NewSQLStore(dbh)
	resSvc := resource.NewService(resStore, quizStore, blobs, signer)

	purchaseStore := purchase.NewSQLStore(dbh)
	mailer := purchase.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.CheckoutURL)
	fulfiller := purchase.NewFulfiller(purchaseStore, mailer, cfg.StripeWebhookSecret, logger)

	seeder := seed.New(quizStore, diagStore, accessStore)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Secret"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	// Stripe calls these directly; /get-purchase carries its own CORS
	// headers so the success page can poll it cross-origin.
	r.Post("/stripe-webhook", api.StripeWebhookHandler(fulfiller))
	r.Get("/get-purchase", api.GetPurchaseHandler(fulfiller))
	r.Options("/get-purchase", api.GetPurchasePreflightHandler())

	r.Post("/auth/redeem", api.RedeemHandler(accessSvc, authSvc))

	// Diagnostic works for guests too; a bearer token is honored when present.
	r.Get("/diagnostic", api.GetDiagnosticHandler(diagSvc))
	r.With(auth.OptionalJWT(authSvc)).Post("/diagnostic/submit", api.SubmitDiagnosticHandler(diagSvc))
	r.With(auth.OptionalJWT(authSvc)).Get("/diagnostic/results", api.DiagnosticResultsHandler(diagSvc))

	r.Route("/files", func(fr chi.Router) {
		api.MountFiles(fr, blobs, signer)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Get("/auth/session", api.SessionHandler(accessSvc))
		pr.Get("/quizzes", api.ListQuizzesHandler(quizSvc))
		pr.Get("/quizzes/{quizID}", api.GetQuizHandler(quizSvc))
		pr.Post("/quizzes/{quizID}/submit", api.SubmitQuizHandler(quizSvc))
		pr.Get("/progress", api.ProgressHandler(quizSvc))
		pr.Post("/diagnostic/migrate", api.MigrateGuestHandler(diagSvc))
		pr.Get("/resources", api.ListResourcesHandler(resSvc))
		pr.Post("/resources/{resourceID}/download", api.DownloadResourceHandler(resSvc))
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(auth.AdminMiddleware(cfg.AdminSecretHash))
		ar.Post("/access-codes", api.CreateAccessCodeHandler(accessSvc))
		ar.Get("/access-codes", api.ListAccessCodesHandler(accessSvc))
		ar.Post("/quizzes", api.CreateQuizHandler(quizSvc))
		ar.Get("/quizzes", api.ListAllQuizzesHandler(quizSvc))
		ar.Post("/quizzes/{quizID}/toggle", api.ToggleQuizHandler(quizSvc))
		ar.Post("/resources", api.CreateResourceHandler(resSvc))
		ar.Post("/uploads", api.UploadHandler(blobs))
		ar.Get("/stats/downloads", api.DownloadStatsHandler(resSvc))
		ar.Post("/seed", api.SeedHandler(seeder))
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("db", cfg.DBDriver).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-runCtx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}
