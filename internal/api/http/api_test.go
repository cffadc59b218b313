package http_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	api "github.com/campuskit/surveyhub/internal/api/http"
	"github.com/campuskit/surveyhub/internal/audience"
	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/db"
	"github.com/campuskit/surveyhub/internal/rbac"
	"github.com/campuskit/surveyhub/internal/response"
	"github.com/campuskit/surveyhub/internal/roster"
	"github.com/campuskit/surveyhub/internal/schedule"
	"github.com/campuskit/surveyhub/internal/survey"

	"github.com/go-chi/chi/v5"

	_ "modernc.org/sqlite" // driver for "sqlite"
)

// testServer wires the same routes the gateway mounts, against an in-memory
// database.
func testServer(t *testing.T) (*httptest.Server, *roster.Store) {
	t.Helper()
	dbh, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbh.Close() })
	if err := db.EnsureSchema(context.Background(), dbh, db.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	users := auth.NewUserStore(dbh)
	surveys := survey.NewStore(dbh)
	windows := schedule.NewStore(dbh)
	people := roster.NewStore(dbh)
	responses := response.NewStore(dbh)
	resolver := audience.NewResolver(people, windows)
	authSvc := auth.NewAuthService("test-secret")

	r := chi.NewRouter()
	r.Post("/auth/register", api.RegisterHandler(users, authSvc))
	r.Post("/auth/login", api.LoginHandler(users, authSvc))
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.With(rbac.Require("survey:create")).
			Post("/surveys", api.SaveSurveyHandler(surveys))
		pr.With(rbac.Require("schedule:create")).
			Post("/permissions", api.SavePermissionsHandler(windows))
		pr.With(rbac.Require("survey:view-assigned")).
			Get("/student/surveys", api.AssignedSurveysHandler(resolver))
		pr.With(rbac.Require("response:submit")).
			Post("/student/responses", api.SubmitResponsesHandler(responses))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, people
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func register(t *testing.T, srv *httptest.Server, email, role string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"email": email, "role": role, "password": "password1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return out.Token
}

func TestTokenGate(t *testing.T) {
	srv, _ := testServer(t)

	if resp := doJSON(t, http.MethodGet, srv.URL+"/student/surveys", "", nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("missing token: status %d, want 403", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodGet, srv.URL+"/student/surveys", "not-a-jwt", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", resp.StatusCode)
	}
}

func TestRoleGate(t *testing.T) {
	srv, _ := testServer(t)
	studentTok := register(t, srv, "ravi@x.edu", "student")

	resp := doJSON(t, http.MethodPost, srv.URL+"/surveys", studentTok, map[string]any{
		"survey_name": "nope",
		"questions":   []map[string]any{{"text": "q", "type": "text"}},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("student creating a survey: status %d, want 403", resp.StatusCode)
	}
}

func TestStudentSurveyFlow(t *testing.T) {
	srv, people := testServer(t)
	staffTok := register(t, srv, "staff@x.edu", "staff")
	studentTok := register(t, srv, "ravi@x.edu", "student")

	if err := people.UpsertDetail(context.Background(), roster.StudentDetail{
		Email: "ravi@x.edu", Year: "II", Department: "CSE",
	}); err != nil {
		t.Fatalf("seed detail: %v", err)
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/surveys", staffTok, map[string]any{
		"survey_id":   "s1",
		"survey_name": "Course survey",
		"questions": []map[string]any{
			{"text": "Rate the course", "type": "scale"},
			{"text": "Pick a track", "type": "multiple", "options": []string{"AI", "Systems"}},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save survey: status %d", resp.StatusCode)
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	resp = doJSON(t, http.MethodPost, srv.URL+"/permissions", staffTok, map[string]any{
		"survey_id": "s1", "surveyTitle": "Course survey",
		"start_date": yesterday, "end_date": tomorrow,
		"assigned_roles": "Year:II",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save permissions: status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/student/surveys?state=live", studentTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("student surveys: status %d", resp.StatusCode)
	}
	var assigned []audience.AssignedSurvey
	if err := json.NewDecoder(resp.Body).Decode(&assigned); err != nil {
		t.Fatalf("decode assigned: %v", err)
	}
	if len(assigned) != 1 || assigned[0].SurveyID != "s1" {
		t.Fatalf("assigned = %+v, want survey s1", assigned)
	}
	if assigned[0].ResponseLimit != 1 {
		t.Fatalf("response limit = %d, want defaulted 1", assigned[0].ResponseLimit)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/student/responses", studentTok, map[string]any{
		"answers": []map[string]any{
			{"survey_id": "s1", "surveyTitle": "Course survey", "question_text": "Rate the course", "response_text": "4"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit responses: status %d", resp.StatusCode)
	}
}

func TestUnknownStudent404(t *testing.T) {
	srv, _ := testServer(t)
	tok := register(t, srv, "ghost@x.edu", "student")

	resp := doJSON(t, http.MethodGet, srv.URL+"/student/surveys", tok, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unregistered student: status %d, want 404", resp.StatusCode)
	}
}

func TestSaveSurveyRejectsBadType(t *testing.T) {
	srv, _ := testServer(t)
	staffTok := register(t, srv, "staff@x.edu", "staff")

	resp := doJSON(t, http.MethodPost, srv.URL+"/surveys", staffTok, map[string]any{
		"survey_name": "Bad",
		"questions":   []map[string]any{{"text": "q", "type": "essay"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid question type: status %d, want 400", resp.StatusCode)
	}
}
