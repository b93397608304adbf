package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/hirelane/hirelane-ats/internal/api/http"
	"github.com/hirelane/hirelane-ats/internal/audit"
	auth "github.com/hirelane/hirelane-ats/internal/auth/middleware"
	"github.com/hirelane/hirelane-ats/internal/config"
	"github.com/hirelane/hirelane-ats/internal/db"
	"github.com/hirelane/hirelane-ats/internal/grader"
	"github.com/hirelane/hirelane-ats/internal/interview"
	"github.com/hirelane/hirelane-ats/internal/rbac"
	"github.com/hirelane/hirelane-ats/internal/scoring"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := interview.NewSQLStore(dbh, cfg.DBDriver)
	events := audit.NewEventRepo(dbh)

	// --- Grading model ---
	var g grader.Grader
	client, err := grader.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
	if err != nil {
		// Scoring endpoints will answer 500 until credentials arrive.
		log.Printf("grading disabled: %v", err)
	} else {
		g = grader.NewChatGrader(client)
	}

	// --- Scoring engines, one per recommendation taxonomy ---
	shared := []scoring.Option{
		scoring.WithCutoffThreshold(cfg.CutoffThreshold),
		scoring.WithTechnicalCriterion(cfg.TechnicalCriterion),
	}
	evaluateEngine := scoring.NewEngine(shared...)
	completeEngine := scoring.NewEngine(append(shared,
		scoring.WithEmptyTotalFallback(0),
		scoring.WithPolicy(scoring.BandedPolicy{}),
		scoring.WithCriterionRounding(scoring.RoundTwoDecimals),
	)...)

	attempts := &api.Attempts{
		Store:          store,
		Grader:         g,
		EvaluateEngine: evaluateEngine,
		CompleteEngine: completeEngine,
		Events:         events,
	}

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("job:create")).
			Post("/jobs", api.CreateJobHandler(store, evaluateEngine))
		pr.With(rbac.Require("job:view")).
			Get("/jobs/{jobID}", api.GetJobHandler(store))

		pr.With(rbac.Require("attempt:create")).
			Post("/attempts", attempts.Create)
		pr.With(rbac.Require("attempt:evaluate")).
			Post("/attempts/{attemptID}/evaluate", attempts.Evaluate)
		pr.With(rbac.Require("attempt:complete")).
			Post("/attempts/{attemptID}/complete", attempts.Complete)
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", attempts.Get)
		pr.With(rbac.Require("audit:view")).
			Get("/attempts/{attemptID}/audit", attempts.Audit)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
