package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/campuskit/surveyhub/internal/api/http"
	"github.com/campuskit/surveyhub/internal/audience"
	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/config"
	"github.com/campuskit/surveyhub/internal/db"
	"github.com/campuskit/surveyhub/internal/rbac"
	"github.com/campuskit/surveyhub/internal/response"
	"github.com/campuskit/surveyhub/internal/roster"
	"github.com/campuskit/surveyhub/internal/schedule"
	"github.com/campuskit/surveyhub/internal/survey"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Stores & services ---
	users := auth.NewUserStore(dbh)
	surveys := survey.NewStore(dbh)
	windows := schedule.NewStore(dbh)
	people := roster.NewStore(dbh)
	responses := response.NewStore(dbh)
	resolver := audience.NewResolver(people, windows)
	aggregator := audience.NewAggregator(resolver, people)

	secret := cfg.AuthSecret
	if secret == "" {
		if cfg.Mode == config.ModeProd {
			log.Fatal("AUTH_HMAC_SECRET must be set in prod mode")
		}
		secret = "dev-only-secret"
	}
	authSvc := auth.NewAuthService(secret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsDev
	if cfg.Mode == config.ModeProd {
		origins = cfg.CORSOriginsProd
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public identity routes
	r.Post("/auth/register", api.RegisterHandler(users, authSvc))
	r.Post("/auth/login", api.LoginHandler(users, authSvc))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Staff: authoring
		pr.With(rbac.Require("survey:create")).
			Post("/surveys", api.SaveSurveyHandler(surveys))
		pr.With(rbac.Require("survey:list")).
			Get("/surveys", api.ListSurveysHandler(surveys))
		pr.With(rbac.Require("survey:view")).
			Get("/surveys/{surveyID}", api.GetSurveyHandler(surveys))
		pr.With(rbac.Require("survey:delete")).
			Delete("/surveys/{surveyID}", api.DeleteSurveyHandler(surveys))

		// Staff: scheduling
		pr.With(rbac.Require("schedule:create")).
			Post("/permissions", api.SavePermissionsHandler(windows))
		pr.With(rbac.Require("schedule:list")).
			Get("/permissions", api.ListPermissionsHandler(windows))

		// Staff: groups
		pr.With(rbac.Require("group:create")).
			Post("/groups", api.CreateGroupHandler(people))
		pr.With(rbac.Require("group:list")).
			Get("/groups", api.ListGroupsHandler(people))
		pr.With(rbac.Require("group:update")).
			Put("/groups/{groupID}", api.RenameGroupHandler(people))
		pr.With(rbac.Require("group:delete")).
			Delete("/groups/{groupID}", api.DeleteGroupHandler(people))
		pr.With(rbac.Require("group:update")).
			Post("/groups/{groupID}/students", api.AddGroupStudentsHandler(people))
		pr.With(rbac.Require("group:list")).
			Get("/groups/{groupID}/students", api.ListGroupStudentsHandler(people))
		pr.With(rbac.Require("group:update")).
			Delete("/groups/{groupID}/students/{email}", api.RemoveGroupStudentHandler(people))

		// Staff: roster & results
		pr.With(rbac.Require("student:view")).
			Post("/students", api.UpsertStudentDetailHandler(people))
		pr.With(rbac.Require("student:view")).
			Get("/students/{email}", api.GetStudentDetailHandler(people))
		pr.With(rbac.Require("response:view")).
			Get("/submissions", api.SubmissionCountsHandler(responses))
		pr.With(rbac.Require("feedback:create")).
			Post("/feedback", api.SaveFeedbackHandler(responses))

		// Student flow
		pr.With(rbac.Require("survey:view-assigned")).
			Get("/student/surveys", api.AssignedSurveysHandler(resolver))
		pr.With(rbac.Require("survey:view-assigned")).
			Get("/student/surveys/{surveyID}", api.GetPublishedSurveyHandler(surveys))
		pr.With(rbac.Require("response:submit")).
			Post("/student/responses", api.SubmitResponsesHandler(responses))
		pr.With(rbac.Require("response:submit")).
			Get("/student/responses/{surveyID}", api.StudentAnswersHandler(responses))
		pr.With(rbac.Require("student:view-own")).
			Get("/student/details", api.MyDetailHandler(people))
		pr.With(rbac.Require("student:view-own")).
			Get("/student/feedback", api.MyFeedbackHandler(responses))

		// Mentor flow
		pr.With(rbac.Require("mentee:view")).
			Get("/mentor/mentees", api.MenteesHandler(people))
		pr.With(rbac.Require("mentee:view")).
			Get("/mentor/surveys", api.MenteeSurveysHandler(aggregator))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
